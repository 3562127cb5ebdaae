// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bookcircle/internal/platform/postgres"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%mystery%", postgres.ContainsPattern("mystery"))
	assert.Equal(t, `%100\%\_off\\%`, postgres.ContainsPattern(`100%_off\`))
}

func TestArgs(t *testing.T) {
	var args postgres.Args
	for i := 1; i <= 11; i++ {
		placeholder := args.Add(i)
		if i == 1 {
			assert.Equal(t, "$1", placeholder)
		}
		if i == 11 {
			assert.Equal(t, "$11", placeholder)
		}
	}
	assert.Len(t, args.Values(), 11)
}
