package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Jeffail/gabs"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/yumyai/neighbourann/logger"
	"github.com/yumyai/neighbourann/pkg/model"
)

// Bakta runs the Bakta genome annotator and reads its JSON result.
type Bakta struct {
	Exec Executor
	Bin  string
	DB   string // passed as --db when set, otherwise Bakta uses BAKTA_DB itself
}

func NewBakta(exec Executor, bin, db string) *Bakta {
	return &Bakta{Exec: exec, Bin: bin, DB: db}
}

// baktaFeature is the subset of a Bakta JSON feature that ends up in the report.
type baktaFeature struct {
	Type    string `mapstructure:"type"`
	Locus   string `mapstructure:"locus"`
	Gene    string `mapstructure:"gene"`
	Product string `mapstructure:"product"`
	Start   int    `mapstructure:"start"`
	Stop    int    `mapstructure:"stop"`
}

func (b *Bakta) args(req AnnotateRequest) []string {
	args := []string{}
	if b.DB != "" {
		args = append(args, "--db", b.DB)
	}
	return append(args,
		"--output", req.OutDir,
		"--prefix", req.Prefix,
		"--force",
		req.GenomePath,
	)
}

func (b *Bakta) Annotate(ctx context.Context, req AnnotateRequest) (*AnnotatorResult, error) {
	if _, err := b.Exec.Run(ctx, b.Bin, b.args(req)...); err != nil {
		return nil, err
	}

	jsonPath := filepath.Join(req.OutDir, req.Prefix+".json")
	genes, err := ParseBaktaJSON(jsonPath)
	if err != nil {
		return nil, err
	}

	logger.Debug("Bakta finished", zap.String("out_dir", req.OutDir), zap.Int("genes", len(genes)))

	return &AnnotatorResult{
		Genes:       genes,
		ProteinPath: filepath.Join(req.OutDir, req.Prefix+".faa"),
	}, nil
}

// ParseBaktaJSON reads every feature carrying a locus tag, in file order.
func ParseBaktaJSON(path string) ([]model.GeneRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read Bakta output: %w", err)
	}

	parsed, err := gabs.ParseJSON(raw)
	if err != nil {
		return nil, &ParseError{Path: path, Msg: "invalid JSON", Err: err}
	}
	if !parsed.Exists("features") {
		return nil, &ParseError{Path: path, Msg: "no features array"}
	}

	children, err := parsed.S("features").Children()
	if err != nil {
		return nil, &ParseError{Path: path, Msg: "features is not an array", Err: err}
	}

	genes := make([]model.GeneRecord, 0, len(children))
	for i, child := range children {
		var f baktaFeature
		if err := mapstructure.Decode(child.Data(), &f); err != nil {
			return nil, &ParseError{Path: path, Msg: fmt.Sprintf("feature %d", i), Err: err}
		}
		if f.Locus == "" {
			continue
		}
		genes = append(genes, model.GeneRecord{
			LocusTag: f.Locus,
			Gene:     f.Gene,
			Product:  f.Product,
			Length:   f.Stop - f.Start + 1,
			Start:    f.Start,
			End:      f.Stop,
		})
	}

	return genes, nil
}
