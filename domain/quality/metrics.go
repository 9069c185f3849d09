// Package quality provides the pluggable quality metrics that score a
// concept expression's retrieved instance set against a learning problem.
// Metrics are pure functions over a confusion matrix; every score lies in
// [0,1] and a zero denominator yields 0 rather than an error.
package quality

import (
	"fmt"
	"strings"
)

// Metric scores a confusion matrix
type Metric interface {
	Name() string
	Score(tp, fn, fp, tn int) float64
}

// F1 is the harmonic mean of precision and recall, the default metric
type F1 struct{}

func (F1) Name() string { return "f1" }

func (F1) Score(tp, fn, fp, tn int) float64 {
	p := Precision{}.Score(tp, fn, fp, tn)
	r := Recall{}.Score(tp, fn, fp, tn)
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Accuracy is the fraction of correctly classified examples
type Accuracy struct{}

func (Accuracy) Name() string { return "accuracy" }

func (Accuracy) Score(tp, fn, fp, tn int) float64 {
	total := tp + fn + fp + tn
	if total == 0 {
		return 0
	}
	return float64(tp+tn) / float64(total)
}

// Precision is tp / (tp + fp)
type Precision struct{}

func (Precision) Name() string { return "precision" }

func (Precision) Score(tp, fn, fp, tn int) float64 {
	if tp+fp == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fp)
}

// Recall is tp / (tp + fn)
type Recall struct{}

func (Recall) Name() string { return "recall" }

func (Recall) Score(tp, fn, fp, tn int) float64 {
	if tp+fn == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fn)
}

// Jaccard is tp / (tp + fp + fn)
type Jaccard struct{}

func (Jaccard) Name() string { return "jaccard" }

func (Jaccard) Score(tp, fn, fp, tn int) float64 {
	if tp+fp+fn == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fp+fn)
}

// ByName resolves a metric from its configuration name
func ByName(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "f1":
		return F1{}, nil
	case "accuracy":
		return Accuracy{}, nil
	case "precision":
		return Precision{}, nil
	case "recall":
		return Recall{}, nil
	case "jaccard":
		return Jaccard{}, nil
	default:
		return nil, fmt.Errorf("unknown quality metric %q", name)
	}
}
