/*
Package registry compiles rule declarations into productions and evaluates them.

A Registry owns the rule mapping, the transform table and a reference to the modifier
that supplies built-in transforms. Rules are compiled once, when they are defined;
weighted declarations are validated at that point. Evaluation state (call-time
overrides and the memo cache) is created fresh for every Evaluate call and discarded
when it returns.

Rule-set inheritance is expressed with Combine: a child registry absorbs its parent's
rules, keeping its own definitions on collision.
*/
package registry
