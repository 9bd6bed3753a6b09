package annotate

import (
	"strings"

	"github.com/yumyai/neighbourann/pkg/model"
)

// JoinPredictions copies gene, prediction type and family of each prediction
// onto the record whose locus tag equals the first token of the prediction's
// ORF identifier. A record is enriched at most once; later predictions for the
// same locus and predictions matching no record are dropped. Returns the
// number of enriched records.
//
// genes must come from a single annotation run, locus tags are only unique there.
func JoinPredictions(genes []model.GeneRecord, preds []model.ResistancePrediction) int {
	byLocus := make(map[string]int, len(genes))
	for i := range genes {
		if _, dup := byLocus[genes[i].LocusTag]; !dup {
			byLocus[genes[i].LocusTag] = i
		}
	}

	enriched := make([]bool, len(genes))
	n := 0
	for _, p := range preds {
		fields := strings.Fields(p.ORFID)
		if len(fields) == 0 {
			continue
		}
		i, ok := byLocus[fields[0]]
		if !ok || enriched[i] {
			continue
		}
		genes[i].Gene = p.Gene
		genes[i].PredictionType = p.PredictionType
		genes[i].Family = p.Family
		enriched[i] = true
		n++
	}
	return n
}
