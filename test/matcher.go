package test

import (
	"go.uber.org/mock/gomock"
)

type predicateMatcher[T any] struct {
	description string
	predicate   func(T) bool
}

var _ gomock.Matcher = &predicateMatcher[any]{}

func (p *predicateMatcher[T]) Matches(x any) bool {
	value, ok := x.(T)
	return ok && p.predicate(value)
}

func (p *predicateMatcher[T]) String() string {
	return p.description
}

// Match returns a gomock matcher accepting arguments of type T for which predicate holds
func Match[T any](predicate func(T) bool) gomock.Matcher {
	return MatchDescribed("satisfies predicate", predicate)
}

// MatchDescribed is Match with the description gomock prints when no call matches
func MatchDescribed[T any](description string, predicate func(T) bool) gomock.Matcher {
	return &predicateMatcher[T]{
		description: description,
		predicate:   predicate,
	}
}
