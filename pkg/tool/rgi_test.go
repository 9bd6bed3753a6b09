package tool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/neighbourann/pkg/model"
)

var rgiFixture = strings.Join([]string{
	"ORF_ID\tContig\tStart\tStop\tOrientation\tCut_Off\tPass_Bitscore\tBest_Hit_Bitscore\tBest_Hit_ARO\tBest_Identities\tARO\tModel_type\tDrug Class\tResistance Mechanism\tAMR Gene Family",
	"NBH_00005 # 10 # 870 # 1 # ID=1_1\t\t\t\t\tPerfect\t500\t560.5\tTEM-1\t100.0\t3000873\tprotein homolog model\tpenam\tantibiotic inactivation\tTEM beta-lactamase",
	"NBH_00020\t\t\t\t\tStrict\t300\t310.2\tsul1\t99.6\t3000410\tprotein homolog model\tsulfonamide antibiotic\tantibiotic target replacement\tsulfonamide resistant sul",
}, "\n") + "\n"

func TestParseRGITable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rgi_output.txt")
	require.NoError(t, os.WriteFile(path, []byte(rgiFixture), 0o644))

	preds, err := ParseRGITable(path)
	require.NoError(t, err)

	assert.Equal(t, []model.ResistancePrediction{
		{ORFID: "NBH_00005 # 10 # 870 # 1 # ID=1_1", Gene: "TEM-1", PredictionType: "Perfect", Family: "TEM beta-lactamase"},
		{ORFID: "NBH_00020", Gene: "sul1", PredictionType: "Strict", Family: "sulfonamide resistant sul"},
	}, preds)
}

func TestParseRGITable_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rgi_output.txt")
	header := strings.SplitN(rgiFixture, "\n", 2)[0] + "\n"
	require.NoError(t, os.WriteFile(path, []byte(header), 0o644))

	preds, err := ParseRGITable(path)
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestParseRGITable_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Empty", content: ""},
		{name: "MissingColumn", content: "ORF_ID\tCut_Off\tBest_Hit_ARO\nA\tStrict\tsul1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rgi_output.txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := ParseRGITable(path)
			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "got %v", err)
		})
	}
}

func TestRGIPredict(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "rgi_output_extracted1")

	exec := &fakeExecutor{run: func(name string, args []string) ([]byte, error) {
		out := flagValue(args, "--output_file")
		return nil, os.WriteFile(out+".txt", []byte(rgiFixture), 0o644)
	}}

	r := NewRGI(exec, "rgi")

	preds, err := r.Predict(context.Background(), PredictRequest{ProteinPath: "/x/p.faa", OutputStem: stem, IncludeLoose: true})
	require.NoError(t, err)
	assert.Len(t, preds, 2)

	_, err = r.Predict(context.Background(), PredictRequest{ProteinPath: "/x/p.faa", OutputStem: stem})
	require.NoError(t, err)

	require.Len(t, exec.calls, 2)
	assert.Equal(t, []string{
		"rgi", "main", "--input_sequence", "/x/p.faa", "--output_file", stem,
		"--input_type", "protein", "--clean", "--include_loose",
	}, exec.calls[0])
	assert.NotContains(t, exec.calls[1], "--include_loose")

	assert.Equal(t, []string{stem + ".txt", stem + ".json"}, r.OutputFiles(stem))
}
