package model

// GeneRecord is one annotated gene of one sequence. PredictionType and Family
// stay empty unless resistance annotation ran and matched the locus tag.
type GeneRecord struct {
	SeqValue       string `json:"seq_value"`
	SeqLength      int    `json:"seq_length"`
	LocusTag       string `json:"locus_tag"`
	Gene           string `json:"gene"`
	Product        string `json:"product"`
	Length         int    `json:"length"`
	Start          int    `json:"start_pos"`
	End            int    `json:"end_pos"`
	PredictionType string `json:"RGI_prediction_type"`
	Family         string `json:"family"`
}

// HasResistance reports whether a resistance prediction was joined onto the record.
func (g *GeneRecord) HasResistance() bool {
	return g.PredictionType != "" || g.Family != ""
}

// SequenceTask is one input line. Ordinal is the 1-based line number.
type SequenceTask struct {
	Ordinal  int
	Sequence string
}

// AnnotationRun is the annotator output for one sequence, in annotator order.
type AnnotationRun []GeneRecord

// ResistancePrediction is one row of resistance predictor output.
type ResistancePrediction struct {
	ORFID          string `mapstructure:"ORF_ID"`
	Gene           string `mapstructure:"Best_Hit_ARO"`
	PredictionType string `mapstructure:"Cut_Off"`
	Family         string `mapstructure:"AMR Gene Family"`
}
