package app

type admitVerdict uint8

const (
	admitAccept admitVerdict = iota
	admitDuplicate
	admitBudget
)

// admitter enforces review dedup and the item budget for one room
// walk. Ids are only unique within a room, so the seen set never
// outlives the walk that owns it.
type admitter struct {
	seen   map[string]struct{}
	budget int // remaining capacity, -1 when unlimited
	count  int
}

// newAdmitter builds an admitter for up to maxItems records.
// maxItems <= 0 means no cap.
func newAdmitter(maxItems int) *admitter {
	budget := maxItems
	if budget <= 0 {
		budget = -1
	}
	return &admitter{seen: make(map[string]struct{}), budget: budget}
}

// admit decides one record by id. A full budget rejects before the
// dedup check, so duplicates never mask exhaustion.
func (a *admitter) admit(id string) admitVerdict {
	if a.exhausted() {
		return admitBudget
	}
	if _, dup := a.seen[id]; dup {
		return admitDuplicate
	}
	a.seen[id] = struct{}{}
	a.count++
	if a.budget > 0 {
		a.budget--
	}
	return admitAccept
}

func (a *admitter) exhausted() bool { return a.budget == 0 }

func (a *admitter) admitted() int { return a.count }
