package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	for _, args := range [][]string{
		{"migrate"},
		{"migrate", "status"},
		{"create-account"},
		{"claim-orphans"},
	} {
		cmd, _, err := rootCmd.Find(args)
		require.NoError(t, err, args)
		assert.Equal(t, args[len(args)-1], cmd.Name())
	}
}

func TestRunMain(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{name: "success", wantCode: 0},
		{name: "failure", err: errors.New("connect db: refused"), wantCode: 1, wantOut: "connect db: refused"},
		{name: "canceled", err: fmt.Errorf("run migrations: %w", context.Canceled), wantCode: 130, wantOut: "canceled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			code := runMain(func() error { return tt.err }, &stderr)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr.String(), tt.wantOut)
		})
	}
}

func TestAccountInput(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		stdin     bool
		input     string
		wantEmail string
		wantPass  string
		wantErr   string
	}{
		{name: "flag password", email: " Ana@Alumno.BUAP.mx ", password: "secret1", wantEmail: "ana@alumno.buap.mx", wantPass: "secret1"},
		{name: "stdin password", email: "bo@gmail.com", stdin: true, input: "hunter22\n", wantEmail: "bo@gmail.com", wantPass: "hunter22"},
		{name: "stdin without newline", email: "bo@gmail.com", stdin: true, input: "hunter22", wantEmail: "bo@gmail.com", wantPass: "hunter22"},
		{name: "invalid email", email: "nobody", password: "secret1", wantErr: "--email"},
		{name: "short password", email: "bo@gmail.com", password: "abc", wantErr: "at least"},
		{name: "both sources", email: "bo@gmail.com", password: "secret1", stdin: true, wantErr: "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, pass, err := accountInput(tt.email, tt.password, tt.stdin, strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, email)
			assert.Equal(t, tt.wantPass, pass)
		})
	}
}
