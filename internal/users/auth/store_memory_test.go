// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/users/auth"
)

/*
TestMemoryUserRepository_ConcurrentCreate lets exactly one racer claim an email.
*/
func TestMemoryUserRepository_ConcurrentCreate(t *testing.T) {
	repository := auth.NewMemoryUserRepository()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, conflicted := 0, 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repository.Create(context.Background(), &auth.User{
				ID:       fmt.Sprintf("u-%d", i),
				Email:    "same@example.com",
				Username: fmt.Sprintf("user%d", i),
			})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if apperr.HasCode(err, apperr.CodeConflict) {
				conflicted++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 19, conflicted)
}

/*
TestMemoryUserRepository_ReturnsCopies keeps callers from mutating stored rows.
*/
func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	repository := auth.NewMemoryUserRepository()
	assert.NoError(t, repository.Create(context.Background(), &auth.User{ID: "u1", Email: "a@example.com", Username: "a", FullName: "A"}))

	user, err := repository.FindByUsername(context.Background(), "a")
	assert.NoError(t, err)
	user.FullName = "mutated"

	again, err := repository.FindByEmail(context.Background(), "a@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "A", again.FullName)
}
