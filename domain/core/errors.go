package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Expression construction errors (programmer errors, not user-recoverable)
	ErrMalformedExpression = errors.New("malformed class expression")

	// Learning problem errors (surfaced to the caller before search starts)
	ErrInvalidLearningProblem = errors.New("invalid learning problem")
	ErrEmptyPositives         = fmt.Errorf("%w: no positive examples", ErrInvalidLearningProblem)
	ErrEmptyNegatives         = fmt.Errorf("%w: no negative examples", ErrInvalidLearningProblem)
	ErrOverlappingExamples    = fmt.Errorf("%w: positives and negatives overlap", ErrInvalidLearningProblem)

	// Adapter errors
	ErrKnowledgeBaseUnavailable = errors.New("knowledge base unavailable")

	// Lifecycle errors
	ErrNotFitted      = errors.New("learner not fitted")
	ErrAlreadyRunning = errors.New("learner is already running")
)

// Error constructors with context
func NewMalformedExpressionError(kind string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedExpression, kind, reason)
}

func NewKnowledgeBaseError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrKnowledgeBaseUnavailable, op, err)
}

// Error checking helpers
func IsMalformedExpression(err error) bool {
	return errors.Is(err, ErrMalformedExpression)
}

func IsInvalidLearningProblem(err error) bool {
	return errors.Is(err, ErrInvalidLearningProblem)
}

func IsKnowledgeBaseUnavailable(err error) bool {
	return errors.Is(err, ErrKnowledgeBaseUnavailable)
}

func IsNotFitted(err error) bool {
	return errors.Is(err, ErrNotFitted)
}
