/*
Package tendril is a procedural text generation engine.

A grammar is a set of named rules, each with one or more alternative productions.
Generating text expands a start rule recursively: references to other rules are
resolved, random (optionally weighted) choices are made among alternatives and named
transforms are applied to the fragments they wrap.

# Concept

Rules are declared with the pkg/dsl builder (or loaded as data with pkg/schema),
compiled once into a registry.Registry and then evaluated any number of times.
Templates reference rules with "{name}" and chain transforms with "{name.capitalize.pluralize}".
A rule declared as memoized (or referenced as "{@name}") expands once per generation,
so every mention of it within one result agrees.

# Key Features

  - Reproducible Output: A seeded Grammar always produces the same sequence of results.
  - Weighted Choices: Weights are validated when the rule is declared, not when it is used.
  - Inheritance: A grammar can extend another; its own rules win on collision.
  - Call-local State: Overrides and the memo cache never outlive a single call.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/tendril"
		"github.com/aretw0/tendril/pkg/dsl"
	)

	func main() {
		b := dsl.New().
			Start("{greeting.capitalize}, {name}!").
			Rule("greeting", "hello", "howdy").
			Rule("name", "world", "friend")

		g, err := tendril.New(b, tendril.WithSeed(42))
		if err != nil {
			log.Fatal(err)
		}

		for i := 0; i < 3; i++ {
			text, err := g.Generate()
			if err != nil {
				log.Fatal(err)
			}
			fmt.Println(text)
		}
	}
*/
package tendril
