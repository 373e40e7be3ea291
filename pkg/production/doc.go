/*
Package production implements the expansion tree evaluated by the Tendril engine.

A compiled rule is a tree of productions. The set of node kinds is closed:

  - Literal: a fixed value returned verbatim.
  - Reference: resolves another rule by symbol and delegates to it.
  - TransformExpression: applies named transforms, left to right, to a base production.
  - Template: concatenates literal text and references parsed from a "{symbol.transform}" string.
  - UniformChoice: picks one alternative with equal probability.
  - WeightedChoice: picks one alternative proportionally to its weight.

Productions are immutable once built. Everything that varies between calls (the random
source, the memo cache, call-time overrides) is reached through the Scope passed to Evaluate.
*/
package production
