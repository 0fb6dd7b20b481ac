package graph

import (
	"strings"
	"testing"

	"github.com/substratehq/groundwork"
)

func TestGenerator_Generate_SimpleGraph(t *testing.T) {
	tmpl := &groundwork.Template{
		Resources: map[string]groundwork.ResourceDef{
			"BackupBucket": {
				Type: "AWS::S3::Bucket",
			},
			"BackupProject": {
				Type:      "AWS::CodeBuild::Project",
				DependsOn: []string{"BackupBucket"},
			},
		},
	}

	gen := &Generator{}
	var sb strings.Builder
	err := gen.Generate(tmpl, &sb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := sb.String()

	if !strings.Contains(output, "digraph") {
		t.Error("expected digraph declaration")
	}
	if !strings.Contains(output, "BackupBucket") {
		t.Error("expected BackupBucket node")
	}
	if !strings.Contains(output, "BackupProject") {
		t.Error("expected BackupProject node")
	}
}

func TestGenerator_Generate_WithGetAtt(t *testing.T) {
	tmpl := &groundwork.Template{
		Resources: map[string]groundwork.ResourceDef{
			"BuildRole": {
				Type: "AWS::IAM::Role",
			},
			"BackupProject": {
				Type: "AWS::CodeBuild::Project",
				Properties: map[string]any{
					"ServiceRole": map[string]any{
						"Fn::GetAtt": []any{"BuildRole", "Arn"},
					},
				},
			},
		},
	}

	gen := &Generator{}
	var sb strings.Builder
	err := gen.Generate(tmpl, &sb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// GetAtt edges are blue
	if !strings.Contains(sb.String(), "blue") {
		t.Error("expected blue color for GetAtt edge")
	}
}

func TestGenerator_Generate_RefEdge(t *testing.T) {
	tmpl := &groundwork.Template{
		Resources: map[string]groundwork.ResourceDef{
			"BackupBucket": {
				Type: "AWS::S3::Bucket",
			},
			"BucketPolicy": {
				Type: "AWS::S3::BucketPolicy",
				Properties: map[string]any{
					"Bucket": map[string]any{"Ref": "BackupBucket"},
				},
			},
		},
	}

	gen := &Generator{}
	output, err := gen.GenerateString(tmpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, "->") {
		t.Error("expected an edge from the Ref")
	}
}

func TestGenerator_Generate_WithParameters(t *testing.T) {
	tmpl := &groundwork.Template{
		Parameters: map[string]groundwork.Parameter{
			"BucketName": {Type: "String"},
		},
		Resources: map[string]groundwork.ResourceDef{
			"BackupBucket": {
				Type: "AWS::S3::Bucket",
				Properties: map[string]any{
					"BucketName": map[string]any{"Ref": "BucketName"},
				},
			},
		},
	}

	gen := &Generator{IncludeParameters: true}
	var sb strings.Builder
	err := gen.Generate(tmpl, &sb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := sb.String()

	if !strings.Contains(output, "BucketName") {
		t.Error("expected BucketName parameter node")
	}
	if !strings.Contains(output, "ellipse") {
		t.Error("expected ellipse shape for parameter")
	}
}

func TestGenerator_Generate_ClusterByService(t *testing.T) {
	tmpl := &groundwork.Template{
		Resources: map[string]groundwork.ResourceDef{
			"BackupBucket":  {Type: "AWS::S3::Bucket"},
			"ArchiveBucket": {Type: "AWS::S3::Bucket"},
			"BackupProject": {Type: "AWS::CodeBuild::Project"},
		},
	}

	gen := &Generator{ClusterByService: true}
	var sb strings.Builder
	err := gen.Generate(tmpl, &sb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(sb.String(), "cluster_") {
		t.Error("expected cluster subgraph")
	}
}

func TestGenerator_Generate_MermaidFormat(t *testing.T) {
	tmpl := &groundwork.Template{
		Resources: map[string]groundwork.ResourceDef{
			"BackupBucket": {Type: "AWS::S3::Bucket"},
			"BackupProject": {
				Type:      "AWS::CodeBuild::Project",
				DependsOn: []string{"BackupBucket"},
			},
		},
	}

	gen := &Generator{Format: FormatMermaid}
	var sb strings.Builder
	err := gen.Generate(tmpl, &sb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := sb.String()

	if !strings.Contains(output, "graph") && !strings.Contains(output, "flowchart") {
		t.Errorf("expected mermaid graph/flowchart, got:\n%s", output)
	}
	if strings.Contains(output, "digraph") {
		t.Error("expected mermaid format, not DOT")
	}
}

func TestGenerator_Generate_IgnoresUnknownReferences(t *testing.T) {
	tmpl := &groundwork.Template{
		Resources: map[string]groundwork.ResourceDef{
			"Hook": {
				Type: "Custom::StripeWebhookEndpoint",
				Properties: map[string]any{
					"ServiceToken": map[string]any{"Ref": "ProvisionerOutsideStack"},
				},
			},
		},
	}

	gen := &Generator{}
	output, err := gen.GenerateString(tmpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(output, "ProvisionerOutsideStack") {
		t.Error("references to names outside the template should not become nodes")
	}
}

func TestGenerator_GenerateString(t *testing.T) {
	tmpl := &groundwork.Template{
		Resources: map[string]groundwork.ResourceDef{
			"BackupBucket": {Type: "AWS::S3::Bucket"},
		},
	}

	gen := &Generator{}
	output, err := gen.GenerateString(tmpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, "BackupBucket") {
		t.Error("expected BackupBucket in output")
	}
}
