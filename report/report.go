/*
Package report measures how well a classifier's predictions match the labels
of a dataset.
*/
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andrijadukic/indecision-trees/dataset"
)

// Error represents an error analysing predictions
type Error string

const (
	// ErrLengthMismatch is returned when the number of predictions differs
	// from the number of records in the analysed dataset
	ErrLengthMismatch = Error("number of predictions does not match number of records")
	// ErrEmptyDataset is returned when analysing a dataset with no records
	ErrEmptyDataset = Error("cannot analyse predictions for an empty dataset")
)

func (e Error) Error() string {
	return string(e)
}

// AccuracyPlaces is the number of decimal places accuracies are rounded to
const AccuracyPlaces = 5

/*
Classifier is the interface for models whose predictions can be analysed: they
expose the column they predict and the values it may take.
*/
type Classifier interface {
	ClassLabel() string
	ClassLabelDomain() []string
}

/*
Analysis holds the predictions a classifier made for each record of a dataset,
in the order of the records.
*/
type Analysis struct {
	Classifier
	Dataset     *dataset.Dataset
	Predictions []string
}

// New returns an analysis of the given predictions
func New(c Classifier, d *dataset.Dataset, predictions []string) *Analysis {
	return &Analysis{c, d, predictions}
}

func (a *Analysis) validate() error {
	if a.Dataset.Len() == 0 {
		return ErrEmptyDataset
	}
	if a.Dataset.Len() != len(a.Predictions) {
		return fmt.Errorf("%w: %d predictions for %d records", ErrLengthMismatch, len(a.Predictions), a.Dataset.Len())
	}
	return nil
}

// Accuracy returns the ratio of records whose label matches its prediction
func (a *Analysis) Accuracy() (float64, error) {
	err := a.validate()
	if err != nil {
		return 0.0, err
	}
	label := a.ClassLabel()
	var correct int
	for i, r := range a.Dataset.Records() {
		if r[label] == a.Predictions[i] {
			correct++
		}
	}
	return float64(correct) / float64(a.Dataset.Len()), nil
}

/*
ConfusionMatrix returns the number of records for each pair of actual label and
predicted label. A label or prediction outside the classifier's domain makes it
return a *dataset.DomainError.
*/
func (a *Analysis) ConfusionMatrix() (*ConfusionMatrix, error) {
	err := a.validate()
	if err != nil {
		return nil, err
	}
	label := a.ClassLabel()
	cm := NewConfusionMatrix(a.ClassLabelDomain())
	for i, r := range a.Dataset.Records() {
		err = cm.Add(r[label], a.Predictions[i])
		if err != nil {
			return nil, err
		}
	}
	return cm, nil
}

/*
Lines returns the report of the analysis: the rounded accuracy on the first
line followed by the rows of the confusion matrix.
*/
func (a *Analysis) Lines() ([]string, error) {
	accuracy, err := a.Accuracy()
	if err != nil {
		return nil, err
	}
	cm, err := a.ConfusionMatrix()
	if err != nil {
		return nil, err
	}
	return append([]string{FormatAccuracy(accuracy)}, cm.Lines()...), nil
}

/*
FormatAccuracy returns the given accuracy rounded half to even to
AccuracyPlaces decimal places, without trailing zeros but keeping at least
one decimal (1 is "1.0").
*/
func FormatAccuracy(accuracy float64) string {
	s := decimal.NewFromFloat(accuracy).RoundBank(AccuracyPlaces).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

/*
ConfusionMatrix counts, over a sorted domain of labels, how many times each
actual label got each prediction.
*/
type ConfusionMatrix struct {
	domain []string
	index  map[string]int
	counts [][]int
}

// NewConfusionMatrix returns a confusion matrix with all counts at 0 for the
// given labels.
func NewConfusionMatrix(domain []string) *ConfusionMatrix {
	sorted := append([]string(nil), domain...)
	sort.Strings(sorted)
	index := make(map[string]int, len(sorted))
	counts := make([][]int, len(sorted))
	for i, v := range sorted {
		index[v] = i
		counts[i] = make([]int, len(sorted))
	}
	return &ConfusionMatrix{sorted, index, counts}
}

// Add counts one record with the given actual label and prediction.
func (cm *ConfusionMatrix) Add(actual, predicted string) error {
	i, ok := cm.index[actual]
	if !ok {
		return &dataset.DomainError{Column: "actual", Value: actual}
	}
	j, ok := cm.index[predicted]
	if !ok {
		return &dataset.DomainError{Column: "predicted", Value: predicted}
	}
	cm.counts[i][j]++
	return nil
}

// Count returns the number of records with the given actual label and prediction.
func (cm *ConfusionMatrix) Count(actual, predicted string) int {
	i, ok := cm.index[actual]
	if !ok {
		return 0
	}
	j, ok := cm.index[predicted]
	if !ok {
		return 0
	}
	return cm.counts[i][j]
}

// Domain returns the sorted labels of the matrix
func (cm *ConfusionMatrix) Domain() []string {
	return append([]string(nil), cm.domain...)
}

// Lines returns a line per actual label, in domain order, with the space
// separated counts for each prediction, in domain order.
func (cm *ConfusionMatrix) Lines() []string {
	lines := make([]string, len(cm.counts))
	for i, row := range cm.counts {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = strconv.Itoa(c)
		}
		lines[i] = strings.Join(cells, " ")
	}
	return lines
}
