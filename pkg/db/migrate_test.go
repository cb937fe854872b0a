/*
 * Copyright 2025 Orchard IQ.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "two statements",
			content:  "CREATE TABLE a (id INT);\nCREATE TABLE b (id INT);",
			expected: []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"},
		},
		{
			name:     "line comment with semicolon",
			content:  "-- drop; not a statement\nSELECT 1;",
			expected: []string{"SELECT 1"},
		},
		{
			name:     "semicolon inside string literal",
			content:  "INSERT INTO t VALUES ('a;b');",
			expected: []string{"INSERT INTO t VALUES ('a;b')"},
		},
		{
			name:     "trailing statement without semicolon",
			content:  "SELECT 1",
			expected: []string{"SELECT 1"},
		},
		{
			name:     "whitespace only",
			content:  "  \n\t ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitStatements(tt.content))
		})
	}
}

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, "0001", migrationVersion("0001_init_schema.up.sql"))
	assert.Equal(t, "plain", migrationVersion("plain"))
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	content, err := migrationsFS.ReadFile("migrations/0001_init_schema.up.sql")
	require.NoError(t, err)

	statements := splitStatements(string(content))
	require.NotEmpty(t, statements)

	for _, stmt := range statements {
		assert.NotContains(t, stmt, ";")
	}
}
