// Package console turns text commands into engine calls. A Session owns the
// pull ledger and runs one command at a time.
package console

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/xtding233/gacha-rates/internal/gacha"
	"github.com/xtding233/gacha-rates/internal/source"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// Sources supplies the current weight/catalog snapshot.
type Sources interface {
	Get() source.Snapshot
	Reload() error
}

// Options tunes a Session. Zero fields take defaults.
type Options struct {
	BatchSize int    // pulls per "pull" without an argument; default 10
	MaxPulls  int    // largest accepted "pull n"; default 100000
	Trials    int    // default "spread" trials; default 1000
	MaxDraws  int    // largest "spread" pulls x trials; default 10000000
	Format    string // "text" or "json" for "report"; default text
	RNG       gacha.RandomSource
}

// Session dispatches commands against one ledger.
type Session struct {
	src    Sources
	ledger *gacha.Ledger
	opts   Options
	logger *zap.Logger

	mu       sync.Mutex
	commands map[string]command
}

type command struct {
	usage string
	help  string
	run   func(args []string) (string, error)
}

// NewSession creates a session with an empty ledger.
func NewSession(src Sources, opts Options, logger *zap.Logger) *Session {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.MaxPulls <= 0 {
		opts.MaxPulls = 100000
	}
	if opts.BatchSize > opts.MaxPulls {
		opts.BatchSize = opts.MaxPulls
	}
	if opts.Trials <= 0 {
		opts.Trials = 1000
	}
	if opts.MaxDraws <= 0 {
		opts.MaxDraws = 10000000
	}
	if opts.Format == "" {
		opts.Format = "text"
	}
	if opts.RNG == nil {
		opts.RNG = gacha.DefaultRNG()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{src: src, ledger: gacha.NewLedger(), opts: opts, logger: logger}
	s.commands = map[string]command{
		"pull":    {"pull [n]", "simulate n pulls and record them", s.pull},
		"record":  {"record <rarity>...", "record observed outcomes", s.record},
		"rates":   {"rates", "rate of each rarity", s.rates},
		"chars":   {"chars", "rate of each specific character", s.chars},
		"compare": {"compare", "observed vs configured rates", s.compare},
		"report":  {"report", "full report in the configured format", s.report},
		"spread":  {"spread [pulls] [trials]", "simulated sampling spread", s.spread},
		"clear":   {"clear", "forget recorded pulls", s.clear},
		"reload":  {"reload", "re-read weights and catalog", s.reload},
		"help":    {"help", "list commands", s.help},
	}
	return s
}

// Execute runs one command line and returns its output.
func (s *Session) Execute(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, ok := s.commands[strings.ToLower(fields[0])]
	if !ok {
		return "", fmt.Errorf("%w: %q (try help)", ErrUnknownCommand, fields[0])
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := cmd.run(fields[1:])
	if err == ErrUsage {
		return "", fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}
	return out, err
}

// Run reads commands from in until EOF, "quit", or ctx is done, writing
// results to out. Command errors are reported and do not stop the loop.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		if line == "quit" || line == "exit" {
			return nil
		}
		res, err := s.Execute(line)
		if err != nil {
			s.logger.Warn("command failed", zap.String("line", line), zap.Error(err))
			if _, werr := fmt.Fprintf(out, "error: %v\n", err); werr != nil {
				return werr
			}
			continue
		}
		if _, err := io.WriteString(out, res); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Ledger exposes the session's ledger; callers must not use it concurrently
// with Execute.
func (s *Session) Ledger() *gacha.Ledger { return s.ledger }

func (s *Session) buildReport() gacha.Report {
	snap := s.src.Get()
	return gacha.BuildReport(snap.Weights, snap.Catalog, s.ledger)
}

func (s *Session) pull(args []string) (string, error) {
	n := s.opts.BatchSize
	if len(args) > 1 {
		return "", ErrUsage
	}
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return "", ErrUsage
		}
		if v > s.opts.MaxPulls {
			return "", fmt.Errorf("%w: at most %d pulls per command", ErrUsage, s.opts.MaxPulls)
		}
		n = v
	}
	snap := s.src.Get()
	pulls, err := gacha.NewPuller(snap.Weights, snap.Catalog, s.opts.RNG).Pull(n)
	if err != nil {
		return "", err
	}
	s.ledger.RecordPulls(pulls)
	s.logger.Info("pulls recorded", zap.Int("count", n), zap.Int("total", s.ledger.Total()))
	return gacha.FormatPulls(pulls), nil
}

func (s *Session) record(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrUsage
	}
	rs := make([]gacha.Rarity, 0, len(args))
	for _, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil || v < 0 {
			return "", ErrUsage
		}
		rs = append(rs, gacha.Rarity(v))
	}
	for _, r := range rs {
		s.ledger.Record(r)
	}
	return fmt.Sprintf("recorded %d (total %d)\n", len(rs), s.ledger.Total()), nil
}

func (s *Session) rates(args []string) (string, error) {
	return gacha.FormatRates(s.src.Get().Weights), nil
}

func (s *Session) chars(args []string) (string, error) {
	return gacha.FormatCharacters(s.buildReport()), nil
}

func (s *Session) compare(args []string) (string, error) {
	return gacha.FormatComparison(s.buildReport()), nil
}

func (s *Session) report(args []string) (string, error) {
	rep := s.buildReport()
	if s.opts.Format == "json" {
		b, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode report: %w", err)
		}
		return string(b) + "\n", nil
	}
	snap := s.src.Get()
	return gacha.FormatRates(snap.Weights) + "\n" +
		gacha.FormatCharacters(rep) + "\n" +
		gacha.FormatComparison(rep), nil
}

func (s *Session) spread(args []string) (string, error) {
	if len(args) > 2 {
		return "", ErrUsage
	}
	vals := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil || v < 1 {
			return "", ErrUsage
		}
		vals[i] = v
	}

	// Defaults shrink to fit the limits; explicit values must already fit.
	pulls := min(max(s.ledger.Total(), 1), s.opts.MaxPulls)
	if s.ledger.Total() == 0 {
		pulls = s.opts.BatchSize
	}
	if len(vals) > 0 {
		pulls = vals[0]
		if pulls > s.opts.MaxPulls {
			return "", fmt.Errorf("%w: at most %d pulls per trial", ErrUsage, s.opts.MaxPulls)
		}
	}
	trials := min(s.opts.Trials, max(s.opts.MaxDraws/pulls, 1))
	if len(vals) > 1 {
		trials = vals[1]
		if trials > s.opts.MaxDraws/pulls {
			return "", fmt.Errorf("%w: pulls x trials must not exceed %d", ErrUsage, s.opts.MaxDraws)
		}
	}
	rows, err := gacha.Spread(s.src.Get().Weights, pulls, trials, s.opts.RNG)
	if err != nil {
		return "", err
	}
	return gacha.FormatSpread(rows, pulls, trials), nil
}

func (s *Session) clear(args []string) (string, error) {
	s.ledger.Clear()
	s.logger.Info("ledger cleared")
	return "ledger cleared\n", nil
}

func (s *Session) reload(args []string) (string, error) {
	if err := s.src.Reload(); err != nil {
		return "", fmt.Errorf("reload: %w", err)
	}
	snap := s.src.Get()
	return fmt.Sprintf("reloaded: %d rarities, %d characters\n", snap.Weights.Len(), snap.Catalog.Len()), nil
}

func (s *Session) help(args []string) (string, error) {
	names := make([]string, 0, len(s.commands))
	for n := range s.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, n := range names {
		c := s.commands[n]
		fmt.Fprintf(&sb, "  %-26s %s\n", c.usage, c.help)
	}
	sb.WriteString("  quit                       exit\n")
	return sb.String(), nil
}
