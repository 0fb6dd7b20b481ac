// Package depscan declares a scheduled dependency audit: a CodeBuild project
// clones a repository, runs the ecosystem's audit tool, and uploads the
// report to S3.
package depscan

import (
	"fmt"

	"github.com/substratehq/groundwork"
	"github.com/substratehq/groundwork/internal/buildspec"
	"github.com/substratehq/groundwork/intrinsics"
	"github.com/substratehq/groundwork/resources/codebuild"
	"github.com/substratehq/groundwork/resources/events"
	"github.com/substratehq/groundwork/resources/iam"
	"github.com/substratehq/groundwork/resources/s3"
	"github.com/substratehq/groundwork/stack"
)

// Ecosystem selects the audit tool the scan runs.
type Ecosystem string

// Supported ecosystems.
const (
	EcosystemNode   Ecosystem = "node"
	EcosystemPython Ecosystem = "python"
	EcosystemGo     Ecosystem = "go"
)

// Config describes one dependency scan.
type Config struct {
	// Name prefixes the logical ids and names the project.
	Name string

	// RepositoryURL is the HTTPS clone URL of the repository to audit.
	RepositoryURL string

	// Ecosystem selects the audit command. Defaults to EcosystemNode.
	Ecosystem Ecosystem

	// Schedule is the EventBridge schedule expression.
	Schedule string

	// ReportRetentionDays expires old reports. Zero keeps them forever.
	ReportRetentionDays int
}

// Resources holds handles to the declared resources.
type Resources struct {
	ReportBucket stack.Handle
	Project      stack.Handle
	Role         stack.Handle
	EventRole    stack.Handle
	Rule         stack.Handle
}

// auditCommands maps each ecosystem to the commands producing report.json.
var auditCommands = map[Ecosystem][]string{
	EcosystemNode: {
		`npm install --package-lock-only --ignore-scripts`,
		`npm audit --json > report.json || true`,
	},
	EcosystemPython: {
		`pip install pip-audit`,
		`pip-audit --format=json --output=report.json || true`,
	},
	EcosystemGo: {
		`go install golang.org/x/vuln/cmd/govulncheck@latest`,
		`govulncheck -json ./... > report.json || true`,
	},
}

// Define adds the dependency scan to the stack.
func Define(s *stack.Stack, cfg Config) (Resources, error) {
	var out Resources
	if cfg.Name == "" {
		return out, fmt.Errorf("depscan: Name is required")
	}
	if cfg.RepositoryURL == "" {
		return out, fmt.Errorf("depscan: RepositoryURL is required")
	}
	if cfg.Schedule == "" {
		return out, fmt.Errorf("depscan: Schedule is required")
	}
	eco := cfg.Ecosystem
	if eco == "" {
		eco = EcosystemNode
	}
	commands, ok := auditCommands[eco]
	if !ok {
		return out, fmt.Errorf("depscan: unsupported ecosystem %q", eco)
	}

	prefix := stack.LogicalID(cfg.Name)

	bucket := s3.Bucket{
		BucketEncryption:               s3.AES256Encryption(),
		PublicAccessBlockConfiguration: s3.BlockAllPublicAccess(),
	}
	if cfg.ReportRetentionDays > 0 {
		bucket.LifecycleConfiguration = &s3.LifecycleConfiguration{
			Rules: []s3.LifecycleRule{{
				ID:               "expire-old-reports",
				Status:           "Enabled",
				ExpirationInDays: cfg.ReportRetentionDays,
			}},
		}
	}
	out.ReportBucket = s.Add(prefix+"Reports", bucket)

	out.Role = s.Add(prefix+"Role", iam.Role{
		AssumeRolePolicyDocument: intrinsics.AssumeRolePolicy("codebuild.amazonaws.com"),
		Policies: []iam.RolePolicy{
			{
				PolicyName: "report-upload",
				PolicyDocument: intrinsics.NewPolicyDocument(
					intrinsics.Allow("s3:PutObject", intrinsics.Join{
						Delimiter: "",
						Values:    intrinsics.Any(out.ReportBucket.Arn(), "/*"),
					}),
				),
			},
			{
				PolicyName: "build-logs",
				PolicyDocument: intrinsics.NewPolicyDocument(
					intrinsics.Allow(
						[]string{"logs:CreateLogGroup", "logs:CreateLogStream", "logs:PutLogEvents"},
						intrinsics.Sub{String: "arn:${AWS::Partition}:logs:${AWS::Region}:${AWS::AccountId}:log-group:/aws/codebuild/" + cfg.Name + "*"},
					),
				),
			},
		},
	})

	spec, err := scanSpec(commands)
	if err != nil {
		return out, err
	}

	out.Project = s.Add(prefix+"Project", codebuild.Project{
		Name:        cfg.Name,
		Description: "Scheduled dependency audit for " + cfg.RepositoryURL,
		ServiceRole: out.Role.Arn(),
		Source: &codebuild.Source{
			Type:      codebuild.SourceTypeGitHub,
			Location:  cfg.RepositoryURL,
			BuildSpec: spec,
		},
		Artifacts:        &codebuild.Artifacts{Type: codebuild.ArtifactsTypeNone},
		TimeoutInMinutes: 30,
		Environment: &codebuild.Environment{
			ComputeType: codebuild.ComputeTypeSmall,
			Image:       codebuild.StandardImage,
			Type:        codebuild.LinuxContainer,
			EnvironmentVariables: []codebuild.EnvironmentVariable{
				{Name: "REPORT_BUCKET", Value: out.ReportBucket.Ref()},
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
		Description:        "Triggers the " + cfg.Name + " dependency audit",
		ScheduleExpression: cfg.Schedule,
		State:              events.StateEnabled,
		Targets: []events.Target{{
			Arn:     out.Project.Arn(),
			Id:      "scan-project",
			RoleArn: out.EventRole.Arn(),
		}},
	})

	s.AddOutput(prefix+"ReportBucketName", groundwork.Output{
		Description: "Audit report bucket",
		Value:       out.ReportBucket.Ref(),
	})

	return out, nil
}

func scanSpec(commands []string) (string, error) {
	spec := buildspec.New()
	spec.Phases = buildspec.Phases{
		Build: &buildspec.Phase{Commands: commands},
		PostBuild: &buildspec.Phase{Commands: []string{
			`export STAMP=$(date -u +%Y%m%dT%H%M%SZ)`,
			`aws s3 cp report.json "s3://$REPORT_BUCKET/reports/report-$STAMP.json"`,
		}},
	}
	return spec.Render()
}
