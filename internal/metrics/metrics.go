// Package metrics scores predicted labels against true labels.
package metrics

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultDigits is the number of decimals shown in a report.
const DefaultDigits = 2

// averageHeading is the longest summary line label and sets the minimum name column width.
const averageHeading = "weighted avg"

// Scores holds precision, recall and F1 for one label or one average.
type Scores struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// LabelScores are the Scores of a single label.
type LabelScores struct {
	Label string
	Scores
}

// Report is a per-label classification report.
type Report struct {
	Labels      []LabelScores
	Accuracy    float64
	MacroAvg    Scores
	WeightedAvg Scores
	Digits      int
}

// Accuracy returns the fraction of positions where yPred equals yTrue.
// It returns 0 for empty input and panics if the lengths differ.
func Accuracy(yTrue, yPred []string) float64 {
	if len(yTrue) != len(yPred) {
		panic(fmt.Sprintf("metrics: %d true labels but %d predictions", len(yTrue), len(yPred)))
	}
	if len(yTrue) == 0 {
		return 0
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// ClassificationReport computes per-label precision, recall, F1 and support over the
// sorted union of true and predicted labels. Undefined ratios are reported as 0.
func ClassificationReport(yTrue, yPred []string, digits int) (Report, error) {
	if len(yTrue) != len(yPred) {
		return Report{}, fmt.Errorf("%d true labels but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return Report{}, fmt.Errorf("no labels to report on")
	}
	if digits <= 0 {
		digits = DefaultDigits
	}

	truePositives := make(map[string]int)
	predicted := make(map[string]int)
	support := make(map[string]int)
	for i := range yTrue {
		support[yTrue[i]]++
		predicted[yPred[i]]++
		if yTrue[i] == yPred[i] {
			truePositives[yTrue[i]]++
		}
	}

	labels := make([]string, 0, len(support))
	seen := make(map[string]struct{})
	for _, set := range []map[string]int{support, predicted} {
		for label := range set {
			if _, ok := seen[label]; !ok {
				seen[label] = struct{}{}
				labels = append(labels, label)
			}
		}
	}
	sort.Strings(labels)

	report := Report{
		Labels:   make([]LabelScores, 0, len(labels)),
		Accuracy: Accuracy(yTrue, yPred),
		Digits:   digits,
	}

	total := len(yTrue)
	for _, label := range labels {
		s := Scores{
			Precision: ratio(truePositives[label], predicted[label]),
			Recall:    ratio(truePositives[label], support[label]),
			Support:   support[label],
		}
		s.F1 = f1(s.Precision, s.Recall)
		report.Labels = append(report.Labels, LabelScores{Label: label, Scores: s})

		report.MacroAvg.Precision += s.Precision
		report.MacroAvg.Recall += s.Recall
		report.MacroAvg.F1 += s.F1

		w := float64(s.Support)
		report.WeightedAvg.Precision += s.Precision * w
		report.WeightedAvg.Recall += s.Recall * w
		report.WeightedAvg.F1 += s.F1 * w
	}

	n := float64(len(labels))
	report.MacroAvg = Scores{
		Precision: report.MacroAvg.Precision / n,
		Recall:    report.MacroAvg.Recall / n,
		F1:        report.MacroAvg.F1 / n,
		Support:   total,
	}
	report.WeightedAvg = Scores{
		Precision: report.WeightedAvg.Precision / float64(total),
		Recall:    report.WeightedAvg.Recall / float64(total),
		F1:        report.WeightedAvg.F1 / float64(total),
		Support:   total,
	}

	return report, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// String renders the report as an aligned text table:
//
//	              precision    recall  f1-score   support
//
//	    business       0.96      0.98      0.97       115
//	...
//
//	    accuracy                           0.97       445
//	   macro avg       0.97      0.97      0.97       445
//	weighted avg       0.97      0.97      0.97       445
func (r Report) String() string {
	digits := r.Digits
	if digits <= 0 {
		digits = DefaultDigits
	}

	width := len(averageHeading)
	for _, l := range r.Labels {
		width = max(width, len(l.Label))
	}
	width = max(width, digits)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")

	row := func(name string, s Scores) {
		fmt.Fprintf(&sb, "%*s  %9.*f %9.*f %9.*f %9d\n", width, name,
			digits, s.Precision, digits, s.Recall, digits, s.F1, s.Support)
	}

	for _, l := range r.Labels {
		row(l.Label, l.Scores)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "%*s  %9s %9s %9.*f %9d\n", width, "accuracy", "", "", digits, r.Accuracy, r.MacroAvg.Support)
	row("macro avg", r.MacroAvg)
	row("weighted avg", r.WeightedAvg)

	return sb.String()
}
