/*
Package domain contains the core vocabulary of the Tendril engine.

It defines the identifiers that key rules, the raw declaration shapes accepted when
rules are defined, the error kinds surfaced by compilation and generation, and the
lifecycle hooks used for observability. This package is kept pure and free of
external dependencies.

# Key Entities

  - Symbol: An identifier naming a rule. Used as a reference when it appears inside a rule.
  - Weighted: An (alternative, weight) pair used to declare weighted choices.
  - Mapping: A (pattern, replacement) pair used to declare rewrite transforms.
  - Modifier: The provider of built-in named string transforms.
*/
package domain
