// Package schema loads grammar documents: rule declarations stored as YAML or JSON data.
//
// A document is plain data, not a grammar notation. Each rule maps a name to a list of
// template strings (uniform choice), a map of template to weight (weighted choice), or a
// single template string:
//
//	name: tavern
//	start: start
//	extends: common.yaml
//	memo: [keeper]
//	rules:
//	  start: "{keeper} pours you {drink.article}."
//	  keeper: [Mara, Oswin, Tobb]
//	  drink:
//	    ale: 0.6
//	    cider: 0.3
//	    mead: 0.1
//	mappings:
//	  possessive:
//	    - {pattern: "s$", replace: "s'"}
//	    - {pattern: "$", replace: "'s"}
//
// Documents are decoded with gopkg.in/yaml.v3 (or encoding/json for .json files) into
// generic maps and then into a Document with mapstructure.
//
// Basic usage:
//
//	doc, err := schema.LoadFile("grammars/tavern.yaml")
//	if err != nil {
//	    // Handle load or validation errors
//	}
//	g, err := tendril.New(doc.Builder(), tendril.WithName(doc.Name))
package schema
