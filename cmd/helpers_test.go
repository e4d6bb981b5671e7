package cmd

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/minutedesk/mins-cli/config"
	"github.com/minutedesk/mins-cli/credentials"
	"github.com/minutedesk/mins-cli/pkg/live"
	"github.com/minutedesk/mins-cli/pkg/logging"
	"github.com/minutedesk/mins-cli/pkg/store"
	"github.com/minutedesk/mins-cli/pkg/transcribe"
)

// testDeps builds a Deps wired to the fake store, with input pre-scripted
// and output captured.
func testDeps(fs *fakeStore, input string) (*Deps, *bytes.Buffer) {
	out := &bytes.Buffer{}
	deps := &Deps{
		Config:      config.DefaultConfig(),
		Log:         logging.NewNopLogger(),
		Out:         out,
		In:          strings.NewReader(input),
		Credentials: credentials.NewEnvStore(),
		NewEngine:   transcribe.NewPipeEngine,
		Now:         time.Now,
		OpenStore: func(ctx context.Context) (store.MeetingStore, func(), error) {
			return fs, func() {}, nil
		},
		NewPublisher: func() *live.Publisher { return nil },
	}
	return deps, out
}
