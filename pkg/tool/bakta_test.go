package tool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/neighbourann/pkg/model"
)

const baktaFixture = `{
  "genome": {"genus": "Escherichia"},
  "features": [
    {"type": "cds", "contig": "contig_1", "start": 10, "stop": 870, "strand": "+",
     "gene": "blaTEM-1", "product": "class A beta-lactamase TEM-1", "locus": "NBH_00005"},
    {"type": "cds", "contig": "contig_1", "start": 900, "stop": 1199, "strand": "-",
     "gene": null, "product": "hypothetical protein", "locus": "NBH_00010"},
    {"type": "oriT", "contig": "contig_1", "start": 1300, "stop": 1350, "strand": "+"}
  ]
}`

func TestParseBaktaJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neighbourhood_x.json")
	require.NoError(t, os.WriteFile(path, []byte(baktaFixture), 0o644))

	genes, err := ParseBaktaJSON(path)
	require.NoError(t, err)

	assert.Equal(t, []model.GeneRecord{
		{LocusTag: "NBH_00005", Gene: "blaTEM-1", Product: "class A beta-lactamase TEM-1", Length: 861, Start: 10, End: 870},
		{LocusTag: "NBH_00010", Gene: "", Product: "hypothetical protein", Length: 300, Start: 900, End: 1199},
	}, genes)
}

func TestParseBaktaJSON_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "NotJSON", content: "LOCUS  contig_1"},
		{name: "NoFeatures", content: `{"genome": {}}`},
		{name: "FeaturesNotArray", content: `{"features": 3}`},
		{name: "BadFeature", content: `{"features": [{"locus": "A", "start": "one"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := ParseBaktaJSON(path)
			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "got %v", err)
		})
	}
}

func TestBaktaAnnotate(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "bakta_dir_extracted1")

	exec := &fakeExecutor{run: func(name string, args []string) ([]byte, error) {
		dir := flagValue(args, "--output")
		prefix := flagValue(args, "--prefix")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		return nil, os.WriteFile(filepath.Join(dir, prefix+".json"), []byte(baktaFixture), 0o644)
	}}

	b := NewBakta(exec, "bakta", "/db/bakta")
	res, err := b.Annotate(context.Background(), AnnotateRequest{
		GenomePath: "/tmp/seq.fasta",
		OutDir:     outDir,
		Prefix:     "neighbourhood_extracted1",
	})
	require.NoError(t, err)

	assert.Len(t, res.Genes, 2)
	assert.Equal(t, filepath.Join(outDir, "neighbourhood_extracted1.faa"), res.ProteinPath)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, []string{
		"bakta", "--db", "/db/bakta", "--output", outDir,
		"--prefix", "neighbourhood_extracted1", "--force", "/tmp/seq.fasta",
	}, exec.calls[0])
}

func TestBaktaAnnotate_ToolFailure(t *testing.T) {
	want := &ToolError{Tool: "bakta", Err: errors.New("exit status 1")}
	exec := &fakeExecutor{run: func(string, []string) ([]byte, error) { return nil, want }}

	_, err := NewBakta(exec, "bakta", "").Annotate(context.Background(), AnnotateRequest{OutDir: t.TempDir(), Prefix: "p"})
	assert.ErrorIs(t, err, want)
}

func TestBaktaAnnotate_MissingOutput(t *testing.T) {
	exec := &fakeExecutor{}

	_, err := NewBakta(exec, "bakta", "").Annotate(context.Background(), AnnotateRequest{OutDir: t.TempDir(), Prefix: "p"})
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotContains(t, exec.calls[0], "--db")
}
