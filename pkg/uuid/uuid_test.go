// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangaonline/pkg/uuid"
)

func TestNew_IsValidVersion7(t *testing.T) {
	id := uuid.New()

	assert.True(t, uuid.Valid(id))
	assert.Equal(t, byte('7'), id[14], "version nibble")
	assert.NotEqual(t, id, uuid.New())
}

func TestValid(t *testing.T) {
	id := uuid.New()

	assert.True(t, uuid.Valid(strings.ToUpper(id)))
	assert.False(t, uuid.Valid(""))
	assert.False(t, uuid.Valid("not-a-uuid"))
	assert.False(t, uuid.Valid("{"+id+"}"))
	assert.False(t, uuid.Valid("urn:uuid:"+id))
}
