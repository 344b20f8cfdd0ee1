package chart

// Strategy selects how new data is matched to retained shapes.
type Strategy int

const (
	// ByPosition binds the i-th datum to the i-th shape.
	ByPosition Strategy = iota
	// ByKey binds a datum to the shape carrying the same key.
	ByKey
)

func (s Strategy) String() string {
	if s == ByKey {
		return "key"
	}
	return "position"
}

// Match pairs a retained shape with the datum that now drives it.
type Match struct {
	Old int
	New int
}

// Plan is the outcome of a data join.
type Plan struct {
	Update []Match // retained shapes that receive new data, in new-data order
	Enter  []int   // new-data indexes without a shape
	Exit   []int   // retained-shape indexes without data
}

// Reconcile joins the keys of the retained shapes with the keys of the new
// data. ByPosition only looks at the lengths. ByKey matches each key once;
// a repeated key in the new data enters and a repeated retained key exits.
func Reconcile(strategy Strategy, oldKeys, newKeys []string) Plan {
	var p Plan
	if strategy == ByPosition {
		n := min(len(oldKeys), len(newKeys))
		for i := 0; i < n; i++ {
			p.Update = append(p.Update, Match{Old: i, New: i})
		}
		for i := n; i < len(newKeys); i++ {
			p.Enter = append(p.Enter, i)
		}
		for i := n; i < len(oldKeys); i++ {
			p.Exit = append(p.Exit, i)
		}
		return p
	}

	byKey := make(map[string]int, len(oldKeys))
	for i, k := range oldKeys {
		if _, dup := byKey[k]; !dup {
			byKey[k] = i
		}
	}
	used := make([]bool, len(oldKeys))
	for i, k := range newKeys {
		if j, ok := byKey[k]; ok && !used[j] {
			used[j] = true
			p.Update = append(p.Update, Match{Old: j, New: i})
			continue
		}
		p.Enter = append(p.Enter, i)
	}
	for j := range oldKeys {
		if !used[j] {
			p.Exit = append(p.Exit, j)
		}
	}
	return p
}
