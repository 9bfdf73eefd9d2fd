package probability

// Veto is the consideration score that forces a zero result
const Veto = 0.0

// Abstain is a conventional score for a consideration with no opinion. Any
// negative score abstains.
const Abstain = -1.0

// Evaluate combines a base probability with consideration scores. A score of
// exactly zero vetoes the decision and negative scores abstain. The result
// is the mean of base and every remaining score, or base when all abstain.
func Evaluate(base float64, scores ...float64) float64 {
	sum := base
	count := 1

	for _, s := range scores {
		if s == Veto {
			return 0
		}
		if s < 0 {
			continue
		}
		sum += s
		count++
	}

	return sum / float64(count)
}

// Consideration scores one aspect of a decision about subject
type Consideration[T any] func(subject T) float64

// Aggregate scores subject with every consideration and combines the results
// with Evaluate. Considerations after a veto are not called.
func Aggregate[T any](base float64, subject T, considerations ...Consideration[T]) float64 {
	sum := base
	count := 1

	for _, c := range considerations {
		s := c(subject)
		if s == Veto {
			return 0
		}
		if s < 0 {
			continue
		}
		sum += s
		count++
	}

	return sum / float64(count)
}

// Constant returns a consideration that always scores s
func Constant[T any](s float64) Consideration[T] {
	return func(T) float64 { return s }
}

// When returns a consideration that scores s when pred holds and abstains
// otherwise
func When[T any](pred func(T) bool, s float64) Consideration[T] {
	return func(subject T) float64 {
		if pred(subject) {
			return s
		}
		return Abstain
	}
}
