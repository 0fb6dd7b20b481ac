// Package backup declares a scheduled database backup pipeline: a CodeBuild
// project dumps the database and syncs the dump to a versioned, encrypted
// destination bucket on an EventBridge schedule.
package backup

import (
	"fmt"

	"github.com/substratehq/groundwork"
	"github.com/substratehq/groundwork/internal/buildspec"
	"github.com/substratehq/groundwork/intrinsics"
	"github.com/substratehq/groundwork/resources/codebuild"
	"github.com/substratehq/groundwork/resources/events"
	"github.com/substratehq/groundwork/resources/iam"
	"github.com/substratehq/groundwork/resources/logs"
	"github.com/substratehq/groundwork/resources/s3"
	"github.com/substratehq/groundwork/stack"
)

// Config describes one backup pipeline.
type Config struct {
	// Name prefixes the logical ids and physical resource names.
	Name string

	// DatabaseSecretArn is the Secrets Manager secret holding the database
	// connection string under the "url" JSON key.
	DatabaseSecretArn any

	// Schedule is the EventBridge schedule expression,
	// e.g. "cron(0 5 * * ? *)".
	Schedule string

	// RetentionDays expires old dumps from the bucket. Zero keeps them
	// forever.
	RetentionDays int

	// Timeout bounds the build in minutes. Defaults to 60.
	Timeout int
}

// Resources holds handles to the declared resources.
type Resources struct {
	Bucket    stack.Handle
	Project   stack.Handle
	Role      stack.Handle
	EventRole stack.Handle
	Rule      stack.Handle
	LogGroup  stack.Handle
}

// Define adds the backup pipeline to the stack.
func Define(s *stack.Stack, cfg Config) (Resources, error) {
	var out Resources
	if cfg.Name == "" {
		return out, fmt.Errorf("backup: Name is required")
	}
	if cfg.DatabaseSecretArn == nil {
		return out, fmt.Errorf("backup: DatabaseSecretArn is required")
	}
	if cfg.Schedule == "" {
		return out, fmt.Errorf("backup: Schedule is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60
	}

	prefix := stack.LogicalID(cfg.Name)

	bucket := s3.Bucket{
		BucketEncryption:               s3.AES256Encryption(),
		VersioningConfiguration:        &s3.VersioningConfiguration{Status: "Enabled"},
		PublicAccessBlockConfiguration: s3.BlockAllPublicAccess(),
	}
	if cfg.RetentionDays > 0 {
		bucket.LifecycleConfiguration = &s3.LifecycleConfiguration{
			Rules: []s3.LifecycleRule{{
				ID:               "expire-old-dumps",
				Status:           "Enabled",
				ExpirationInDays: cfg.RetentionDays,
			}},
		}
	}
	out.Bucket = s.Add(prefix+"Bucket", bucket)

	out.LogGroup = s.Add(prefix+"Logs", logs.LogGroup{
		LogGroupName:    intrinsics.Sub{String: "/codebuild/" + cfg.Name},
		RetentionInDays: 30,
	})

	out.Role = s.Add(prefix+"Role", iam.Role{
		AssumeRolePolicyDocument: intrinsics.AssumeRolePolicy("codebuild.amazonaws.com"),
		Policies: []iam.RolePolicy{
			{
				PolicyName: "backup-destination",
				PolicyDocument: intrinsics.NewPolicyDocument(
					intrinsics.Allow(
						[]string{"s3:PutObject", "s3:GetBucketLocation", "s3:ListBucket"},
						intrinsics.Any(out.Bucket.Arn(), intrinsics.Join{
							Delimiter: "",
							Values:    intrinsics.Any(out.Bucket.Arn(), "/*"),
						}),
					),
				),
			},
			{
				PolicyName: "database-secret",
				PolicyDocument: intrinsics.NewPolicyDocument(
					intrinsics.Allow("secretsmanager:GetSecretValue", cfg.DatabaseSecretArn),
				),
			},
			{
				PolicyName: "build-logs",
				PolicyDocument: intrinsics.NewPolicyDocument(
					intrinsics.Allow(
						[]string{"logs:CreateLogStream", "logs:PutLogEvents"},
						intrinsics.Any(out.LogGroup.Arn(), intrinsics.Join{
							Delimiter: "",
							Values:    intrinsics.Any(out.LogGroup.Arn(), ":*"),
						}),
					),
				),
			},
		},
	})

	spec, err := dumpSpec()
	if err != nil {
		return out, err
	}

	out.Project = s.Add(prefix+"Project", codebuild.Project{
		Name:             cfg.Name,
		Description:      "Scheduled database backup to S3",
		ServiceRole:      out.Role.Arn(),
		Source:           &codebuild.Source{Type: codebuild.SourceTypeNoSource, BuildSpec: spec},
		Artifacts:        &codebuild.Artifacts{Type: codebuild.ArtifactsTypeNone},
		TimeoutInMinutes: timeout,
		Environment: &codebuild.Environment{
			ComputeType: codebuild.ComputeTypeSmall,
			Image:       codebuild.StandardImage,
			Type:        codebuild.LinuxContainer,
			EnvironmentVariables: []codebuild.EnvironmentVariable{
				{Name: "BACKUP_BUCKET", Value: out.Bucket.Ref()},
				{Name: "DATABASE_URL", Value: cfg.DatabaseSecretArn, Type: "SECRETS_MANAGER"},
			},
		},
		LogsConfig: &codebuild.LogsConfig{
			CloudWatchLogs: &codebuild.CloudWatchLogs{
				Status:    "ENABLED",
				GroupName: out.LogGroup.Ref(),
			},
		},
	})
	s.DependOn(out.Project, out.Role)

	out.EventRole = s.Add(prefix+"EventRole", iam.Role{
		AssumeRolePolicyDocument: intrinsics.AssumeRolePolicy("events.amazonaws.com"),
		Policies: []iam.RolePolicy{{
			PolicyName: "start-build",
			PolicyDocument: intrinsics.NewPolicyDocument(
				intrinsics.Allow("codebuild:StartBuild", out.Project.Arn()),
			),
		}},
	})

	out.Rule = s.Add(prefix+"Schedule", events.Rule{
		Description:        "Triggers the " + cfg.Name + " backup build",
		ScheduleExpression: cfg.Schedule,
		State:              events.StateEnabled,
		Targets: []events.Target{{
			Arn:     out.Project.Arn(),
			Id:      "backup-project",
			RoleArn: out.EventRole.Arn(),
		}},
	})

	s.AddOutput(prefix+"BucketName", groundwork.Output{
		Description: "Backup destination bucket",
		Value:       out.Bucket.Ref(),
	})

	return out, nil
}

// dumpSpec renders the buildspec that dumps the database and syncs the dump
// into the destination bucket. DATABASE_URL arrives through the build
// environment's Secrets Manager binding, BACKUP_BUCKET through a plain
// variable.
func dumpSpec() (string, error) {
	spec := buildspec.New()
	spec.Phases = buildspec.Phases{
		PreBuild: &buildspec.Phase{Commands: []string{
			`export STAMP=$(date -u +%Y%m%dT%H%M%SZ)`,
		}},
		Build: &buildspec.Phase{Commands: []string{
			`pg_dump "$DATABASE_URL" --no-owner --format=custom --file="dump-$STAMP.pgdump"`,
			`aws s3 cp "dump-$STAMP.pgdump" "s3://$BACKUP_BUCKET/dumps/dump-$STAMP.pgdump"`,
		}},
		PostBuild: &buildspec.Phase{Commands: []string{
			`echo "backup dump-$STAMP.pgdump uploaded"`,
		}},
	}
	return spec.Render()
}
