package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/substratehq/groundwork/stack"
)

func testConfig() Config {
	return Config{
		Name:              "nightly-db",
		DatabaseSecretArn: "arn:aws:secretsmanager:us-east-1:123456789012:secret:prod/db-AbCdEf",
		Schedule:          "cron(0 5 * * ? *)",
		RetentionDays:     30,
	}
}

func TestDefine(t *testing.T) {
	s := stack.New("backups")
	res, err := Define(s, testConfig())
	require.NoError(t, err)

	tmpl, err := s.Template()
	require.NoError(t, err)

	bucket := tmpl.Resources[res.Bucket.LogicalID]
	assert.Equal(t, "AWS::S3::Bucket", bucket.Type)
	assert.Contains(t, bucket.Properties, "BucketEncryption")
	assert.Contains(t, bucket.Properties, "VersioningConfiguration")
	assert.Contains(t, bucket.Properties, "LifecycleConfiguration")

	project := tmpl.Resources[res.Project.LogicalID]
	assert.Equal(t, "AWS::CodeBuild::Project", project.Type)
	assert.Contains(t, project.DependsOn, res.Role.LogicalID)

	rule := tmpl.Resources[res.Rule.LogicalID]
	assert.Equal(t, "AWS::Events::Rule", rule.Type)
	assert.Equal(t, "cron(0 5 * * ? *)", rule.Properties["ScheduleExpression"])
}

func TestDefine_BuildspecDumpsAndSyncs(t *testing.T) {
	s := stack.New("backups")
	res, err := Define(s, testConfig())
	require.NoError(t, err)

	tmpl, err := s.Template()
	require.NoError(t, err)

	source := tmpl.Resources[res.Project.LogicalID].Properties["Source"].(map[string]any)
	spec := source["BuildSpec"].(string)
	assert.Contains(t, spec, "pg_dump")
	assert.Contains(t, spec, "aws s3 cp")
	assert.Contains(t, spec, "version: \"0.2\"")
}

func TestDefine_NoRetentionSkipsLifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.RetentionDays = 0

	s := stack.New("backups")
	res, err := Define(s, cfg)
	require.NoError(t, err)

	tmpl, err := s.Template()
	require.NoError(t, err)
	assert.NotContains(t, tmpl.Resources[res.Bucket.LogicalID].Properties, "LifecycleConfiguration")
}

func TestDefine_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing name", func(c *Config) { c.Name = "" }},
		{"missing secret", func(c *Config) { c.DatabaseSecretArn = nil }},
		{"missing schedule", func(c *Config) { c.Schedule = "" }},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := Define(stack.New("backups"), cfg)
			assert.Error(t, err)
		})
	}
}

func TestDefine_LogicalIDsUsePrefix(t *testing.T) {
	s := stack.New("backups")
	res, err := Define(s, testConfig())
	require.NoError(t, err)

	assert.Equal(t, "NightlyDbBucket", res.Bucket.LogicalID)
	assert.Equal(t, "NightlyDbProject", res.Project.LogicalID)
	assert.Equal(t, "NightlyDbSchedule", res.Rule.LogicalID)
}
