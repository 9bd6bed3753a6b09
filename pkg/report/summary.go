package report

import (
	"sort"

	"github.com/ahmetb/go-linq"

	"github.com/yumyai/neighbourann/pkg/model"
)

type Summary struct {
	Sequences     int
	Genes         int
	AMRGenes      int
	AMRFamilies   []string
	EmptySequence int // sequences without any gene call
}

func Summarize(runs []model.AnnotationRun) Summary {
	var genes []model.GeneRecord
	linq.From(runs).
		SelectMany(func(run interface{}) linq.Query {
			return linq.From([]model.GeneRecord(run.(model.AnnotationRun)))
		}).
		ToSlice(&genes)

	amr := linq.From(genes).Where(func(g interface{}) bool {
		rec := g.(model.GeneRecord)
		return rec.HasResistance()
	})

	var families []string
	amr.Select(func(g interface{}) interface{} {
		return g.(model.GeneRecord).Family
	}).
		Where(func(f interface{}) bool { return f.(string) != "" }).
		Distinct().
		ToSlice(&families)
	sort.Strings(families)

	empty := linq.From(runs).CountWith(func(run interface{}) bool {
		return len(run.(model.AnnotationRun)) == 0
	})

	return Summary{
		Sequences:     len(runs),
		Genes:         len(genes),
		AMRGenes:      amr.Count(),
		AMRFamilies:   families,
		EmptySequence: empty,
	}
}
