/*
Package dsl provides a Go DSL for declaring Tendril grammars.

Rules are declared through typed, fluent operations instead of free-form data,
and compiled into a registry.Registry with Build.

Example usage:

	package main

	import (
		"github.com/aretw0/tendril/pkg/domain"
		"github.com/aretw0/tendril/pkg/dsl"
		"github.com/aretw0/tendril/pkg/registry"
	)

	func main() {
		base := dsl.New().
			Rule("animal", "cat", "dog", "owl").
			MemoRule("hero", "Ann", "Bob")

		story := dsl.New().Extends(base).
			Start("{hero} met {animal.article}. {hero} was pleased.").
			WeightedRule("weather", map[string]float64{"sunny": 0.7, "rainy": 0.3})

		reg, err := story.Build()
		// ... evaluate reg, or wrap it with tendril.FromRegistry(reg)
	}
*/
package dsl
