package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShell_Run_ExplicitExit(t *testing.T) {
	var out bytes.Buffer
	sh := New(strings.NewReader("9\n"), &out, nil, nil, nil, nil, Prefs{}, nil)

	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, out.String(), "MAIN MENU")
}

func TestShell_Run_ExitsOnStdinEOF(t *testing.T) {
	cases := map[string]string{
		"empty input":         "",
		"bad choice then eof": "7\n",
		"unterminated line":   "7",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			sh := New(strings.NewReader(input), &out, nil, nil, nil, nil, Prefs{}, nil)

			done := make(chan error, 1)
			go func() { done <- sh.Run(context.Background()) }()

			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(2 * time.Second):
				t.Fatal("Run kept looping after stdin was exhausted")
			}
		})
	}
}

func TestShell_Run_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	sh := New(strings.NewReader("9\n"), &out, nil, nil, nil, nil, Prefs{}, nil)

	assert.ErrorIs(t, sh.Run(ctx), context.Canceled)
}
