package types

// Record is one collected compound entry.
type Record struct {
	ID             string `bson:"flavonoid_id"    json:"flavonoid_id"`
	SystematicName string `bson:"systematic_name" json:"systematic_name"`
	SMILES         string `bson:"smiles"          json:"smiles"`
	AverageMass    string `bson:"average_mass"    json:"average_mass"`
}

// Usable reports whether the record carries at least one identifying field.
func (r Record) Usable() bool {
	return r.SystematicName != "" || r.SMILES != ""
}

// Outcome classifies the result of fetching one entry.
type Outcome int

const (
	OutcomeCollected Outcome = iota
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCollected:
		return "collected"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// EntryResult is the outcome of fetching a single entry. Record is set only
// when Outcome is OutcomeCollected; Err explains a skip and may be nil.
type EntryResult struct {
	ID      string
	Outcome Outcome
	Record  Record
	Err     error
}

// Collected builds a successful result.
func Collected(rec Record) EntryResult {
	return EntryResult{ID: rec.ID, Outcome: OutcomeCollected, Record: rec}
}

// Skipped builds a skipped result.
func Skipped(id string, err error) EntryResult {
	return EntryResult{ID: id, Outcome: OutcomeSkipped, Err: err}
}
