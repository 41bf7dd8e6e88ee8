// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package dsl

import "github.com/mdhender/parsekit/grammar"

// FromDSL parses source against the bootstrap grammar and lowers the
// resulting Program AST into a runnable Grammar. This is the engine
// bootstrapping itself: parsing a user's grammar description is just
// another call through package grammar.
func FromDSL(source string) (*grammar.Grammar, error) {
	boot, err := Bootstrap()
	if err != nil {
		return nil, err
	}
	root, err := boot.Parse(source)
	if err != nil {
		return nil, err
	}
	return Lower(root)
}
