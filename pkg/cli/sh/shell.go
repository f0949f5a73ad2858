package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/accstream/pkg/env"
	fx "github.com/robotalks/accstream/pkg/framework"
	"github.com/robotalks/accstream/pkg/outbox"
	"github.com/robotalks/accstream/pkg/streamer"
)

// Shell provides ishell backed interactive shell over an in-process
// pipeline.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoStart   bool

	Shell  *ishell.Shell
	Config *env.Config
	Loop   *PipelineLoop
}

// PipelineLoop is a running loop with a pipeline.
type PipelineLoop struct {
	Ctx    context.Context
	Cancel func()
	Env    *env.Env
	Gate   *outbox.Gate
	Loop   *fx.Loop
}

const (
	shellKey        = "$shell"
	stoppedPrompt   = "[stopped] > "
	runningPrompt   = "%s > "
	snapshotTimeout = time.Second

	// DefaultOutboxURL keeps the pipeline in-process unless an outbox
	// is configured.
	DefaultOutboxURL = "pipe:?latency=20ms"
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&StartCmd,
		&StopCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(stoppedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeRunning wraps command func requires a running pipeline.
func MustBeRunning(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Loop == nil {
			c.Err(fmt.Errorf("pipeline not running"))
			return
		}
		fn(c)
	}
}

// WithAutoStart sets AutoStart.
func (s *Shell) WithAutoStart(en bool) *Shell {
	s.AutoStart = en
	return s
}

// Start builds the pipeline from Config and runs it in background.
func (s *Shell) Start() error {
	t, err := s.Config.NewOutbox()
	if err != nil {
		return err
	}
	gate := &outbox.Gate{Outbox: t.Outbox}
	t.Outbox = gate
	e, err := s.Config.NewEnvWith(t)
	if err != nil {
		t.Close()
		return err
	}
	pl := &PipelineLoop{Env: e, Gate: gate, Loop: fx.NewLoop().Add(e)}
	pl.Ctx, pl.Cancel = context.WithCancel(context.Background())
	s.Stop()
	s.Loop = pl
	go pl.Loop.Run(pl.Ctx)
	if s.Shell != nil {
		s.Shell.SetPrompt(fmt.Sprintf(runningPrompt, s.Config.DeviceID))
	}
	return nil
}

// Stop stops the running pipeline.
func (s *Shell) Stop() {
	if s.Loop != nil {
		s.Loop.Cancel()
		s.Loop.Env.Close()
		s.Loop = nil
		if s.Shell != nil {
			s.Shell.SetPrompt(stoppedPrompt)
		}
	}
}

// Snapshot queries the Controller inside the loop.
func (s *Shell) Snapshot() (*streamer.Snapshot, error) {
	if s.Loop == nil {
		return nil, fmt.Errorf("pipeline not running")
	}
	query := streamer.NewSnapshotQuery()
	s.Loop.Loop.PostMessage(query)
	s.Loop.Loop.TriggerNext()
	select {
	case snapshot := <-query.ReplyCh:
		return &snapshot, nil
	case <-time.After(snapshotTimeout):
		return nil, fmt.Errorf("snapshot timeout")
	}
}

// Print prints v as JSON in JSON mode, or as text.
func (s *Shell) Print(c *ishell.Context, v interface{}, text string) {
	if !s.OutputJSON {
		c.Println(text)
		return
	}
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoStart {
		if s.Interactive {
			s.Shell.Printf("Starting %s -> %s ...\n", s.Config.SourceURL, s.Config.OutboxURL)
		}
		if err := s.Start(); err != nil {
			log.Fatalf("start pipeline failed: %v", err)
		}
	}
	defer s.Stop()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// StartCmd (re)starts the pipeline.
	StartCmd = ishell.Cmd{
		Name: "start",
		Help: "[SOURCE_URL]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.Config.SourceURL = c.Args[0]
			}
			if err := s.Start(); err != nil {
				c.Err(err)
			}
		},
	}

	// StopCmd stops the pipeline.
	StopCmd = ishell.Cmd{
		Name: "stop",
		Help: "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Stop()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf := env.NewConfig()
	if !flagSet("outbox") && os.Getenv("ACCSTREAM_OUTBOX") == "" {
		conf.OutboxURL = DefaultOutboxURL
	}
	New(conf).WithAutoStart(true).Run(flag.Args()...)
}

func flagSet(name string) (set bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return
}
