// Command ringq inspects and edits ringq queue files described by a YAML
// queue definition.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/vnykmshr/ringq/internal/config"
	"github.com/vnykmshr/ringq/internal/medium"
	"github.com/vnykmshr/ringq/internal/queue"
)

const version = "0.3.0"

// errUsage marks errors that should be followed by the usage text.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]

	var err error
	switch command {
	case "stats":
		err = withQueue(args, stderr, func(q *queue.Queue, cfg *config.Config) error {
			return handleStats(stdout, q, cfg)
		})
	case "inspect":
		err = withQueue(args, stderr, func(q *queue.Queue, cfg *config.Config) error {
			return handleInspect(stdout, q, cfg)
		})
	case "peek":
		err = withQueue(args, stderr, func(q *queue.Queue, _ *config.Config) error {
			return handlePeek(stdout, q, args[2:])
		})
	case "push":
		err = withQueue(args, stderr, func(q *queue.Queue, _ *config.Config) error {
			return handlePush(stdin, stdout, q, args[2:])
		})
	case "pop":
		err = withQueue(args, stderr, func(q *queue.Queue, _ *config.Config) error {
			return handlePop(stdout, q)
		})
	case "drain":
		err = withQueue(args, stderr, func(q *queue.Queue, _ *config.Config) error {
			return handleDrain(stdout, q)
		})
	case "free":
		err = withQueue(args, stderr, func(q *queue.Queue, cfg *config.Config) error {
			if err := q.Free(false); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Removed %s\n", cfg.Queue.Name)
			return nil
		})
	case "version":
		fmt.Fprintf(stdout, "ringq version %s\n", version)
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return 1
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr)
			printUsage(stderr)
		}
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "ringq CLI Tool - Ring Buffer Queue Inspection")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ringq <command> <queue.yaml> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  stats <queue.yaml>             Show queue statistics")
	fmt.Fprintln(w, "  inspect <queue.yaml>           Detailed queue inspection (JSON)")
	fmt.Fprintln(w, "  peek <queue.yaml> [count]      Show the next N records without consuming")
	fmt.Fprintln(w, "  push <queue.yaml> <data|->     Enqueue a record (- reads stdin)")
	fmt.Fprintln(w, "  pop <queue.yaml>               Dequeue and print one record")
	fmt.Fprintln(w, "  drain <queue.yaml>             Dequeue and print every record")
	fmt.Fprintln(w, "  free <queue.yaml>              Delete the queue file")
	fmt.Fprintln(w, "  version                        Show version information")
	fmt.Fprintln(w, "  help                           Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  ringq stats sensors.yaml")
	fmt.Fprintln(w, "  ringq push sensors.yaml 't=21.5'")
	fmt.Fprintln(w, "  ringq peek sensors.yaml 5")
}

// withQueue loads the definition named by args[1], opens its queue, and
// closes it after fn returns.
func withQueue(args []string, logOut io.Writer, fn func(*queue.Queue, *config.Config) error) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: queue definition required", errUsage)
	}

	cfg, err := config.Load(args[1])
	if err != nil {
		return err
	}

	q, err := queue.Open(cfg.NewMedium(), cfg.Queue.Name, cfg.QueueOptions(logOut))
	if err != nil {
		return fmt.Errorf("opening queue: %w", err)
	}
	defer func() { _ = q.Close() }()

	return fn(q, cfg)
}

func handleStats(w io.Writer, q *queue.Queue, cfg *config.Config) error {
	stats := q.Stats()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Queue Statistics")
	fmt.Fprintln(tw, "================")
	fmt.Fprintf(tw, "Name:\t%s\n", stats.Name)
	fmt.Fprintf(tw, "Medium:\t%s\n", describeMedium(cfg))
	fmt.Fprintf(tw, "Mode:\t%s\n", stats.Mode)
	fmt.Fprintf(tw, "Capacity:\t%d bytes (+%d header)\n", stats.Capacity, stats.HeaderSize)
	fmt.Fprintf(tw, "Records:\t%d\n", stats.Records)
	fmt.Fprintf(tw, "Stored:\t%d bytes\n", stats.SizeBytes)
	fmt.Fprintf(tw, "Available:\t%d bytes\n", stats.AvailableBytes)
	fmt.Fprintf(tw, "Front / Back:\t%d / %d\n", stats.FrontOffset, stats.BackOffset)
	fmt.Fprintf(tw, "Wrapped:\t%t\n", stats.Wrapped)

	if stats.Capacity > 0 {
		fill := float64(stats.SizeBytes) / float64(stats.Capacity) * 100
		fmt.Fprintf(tw, "Payload fill:\t%.1f%%\n", fill)
	}

	return tw.Flush()
}

func handleInspect(w io.Writer, q *queue.Queue, cfg *config.Config) error {
	footprint, err := q.Footprint()
	if err != nil {
		return err
	}

	inspection := struct {
		*queue.Stats
		Medium    string `json:"medium"`
		Footprint int64  `json:"footprint_bytes"`
		Timestamp string `json:"timestamp"`
	}{
		Stats:     q.Stats(),
		Medium:    describeMedium(cfg),
		Footprint: footprint,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(inspection); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func handlePeek(w io.Writer, q *queue.Queue, args []string) error {
	count := 10 // default

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: invalid count: %w", errUsage, err)
		}
		count = n
	}

	if count <= 0 {
		return fmt.Errorf("%w: count must be positive", errUsage)
	}

	records, err := q.Peek(count)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Peeking at next %d record(s) from offset %d:\n\n", len(records), q.FrontIndex())
	for i, r := range records {
		fmt.Fprintf(w, "Record %d:\n", i+1)
		fmt.Fprintf(w, "  Size:    %d bytes\n", len(r))
		fmt.Fprintf(w, "  Payload: %q\n", preview(r))
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Note: front offset unchanged at %d\n", q.FrontIndex())
	return nil
}

func handlePush(stdin io.Reader, w io.Writer, q *queue.Queue, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: data required", errUsage)
	}

	payload := []byte(args[0])
	if args[0] == "-" {
		var err error
		payload, err = io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	if err := q.Enqueue(payload); err != nil {
		return err
	}
	fmt.Fprintf(w, "Enqueued %d bytes (%d records, %d bytes available)\n",
		len(payload), q.Count(), q.AvailableSpace())
	return nil
}

func handlePop(w io.Writer, q *queue.Queue) error {
	payload, err := q.Dequeue()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%q\n", payload)
	return nil
}

func handleDrain(w io.Writer, q *queue.Queue) error {
	n, err := q.Drain(func(p []byte) error {
		_, err := fmt.Fprintf(w, "%q\n", p)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Drained %d record(s)\n", n)
	return nil
}

func describeMedium(cfg *config.Config) string {
	if cfg.Medium.Kind == config.MediumMemory {
		return "memory"
	}
	usage := medium.NewLocal(cfg.Medium.Root)
	if err := usage.Mount(); err != nil {
		return "local " + cfg.Medium.Root
	}
	u := usage.Usage()
	return fmt.Sprintf("local %s (%d bytes free, %d byte blocks)", cfg.Medium.Root, u.FreeBytes, u.BlockSize)
}

// preview returns the first 100 bytes of a payload.
func preview(p []byte) string {
	if len(p) > 100 {
		return string(p[:100]) + "..."
	}
	return string(p)
}
