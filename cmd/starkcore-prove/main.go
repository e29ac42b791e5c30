// Command starkcore-prove runs the bundled Fibonacci AIR's full proving
// pipeline against a request read from stdin: JSON lines in, a single JSON
// summary line out, diagnostics to stderr.
package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vybium/starkcore/examples/fibonacci"
	"github.com/vybium/starkcore/internal/starkcore/proof"
	"github.com/vybium/starkcore/internal/starkcore/starkconfig"
	"github.com/vybium/starkcore/pkg/starkcore"
)

// ProveRequest is the request line's shape: which bundled AIR to run, its
// trace length, and an optional override of the default proof options.
type ProveRequest struct {
	AIR          string `json:"air"`
	TraceLength  int    `json:"trace_length"`
	NumQueries   int    `json:"num_queries,omitempty"`
	BlowupFactor int    `json:"blowup_factor,omitempty"`
}

// ProveSummary is the single JSON line written to stdout on success.
type ProveSummary struct {
	AIR           string   `json:"air"`
	ProofItems    int      `json:"proof_items"`
	MerkleRoots   []string `json:"merkle_roots"`
	Output        uint64   `json:"output"`
	GrindingNonce uint64   `json:"grinding_nonce"`
}

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		fatal("failed to read prove request")
	}
	var req ProveRequest
	if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
		fatal(fmt.Sprintf("failed to parse prove request: %v", err))
	}

	summary, err := run(req)
	if err != nil {
		fatal(err.Error())
	}

	out, err := json.Marshal(summary)
	if err != nil {
		fatal(fmt.Sprintf("failed to serialize summary: %v", err))
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}

func run(req ProveRequest) (*ProveSummary, error) {
	if req.AIR != "" && req.AIR != "fibonacci" {
		return nil, fmt.Errorf("unknown air %q (only \"fibonacci\" is bundled)", req.AIR)
	}
	if req.TraceLength < 2 {
		return nil, fmt.Errorf("trace_length must be at least 2, got %d", req.TraceLength)
	}

	logStderr(fmt.Sprintf("building fibonacci trace of length %d", req.TraceLength))
	dummy, err := fibonacci.NewAIR(req.TraceLength, starkcore.DefaultField.Zero())
	if err != nil {
		return nil, fmt.Errorf("building air: %w", err)
	}
	base, output := dummy.Trace()

	a, err := fibonacci.NewAIR(req.TraceLength, output)
	if err != nil {
		return nil, fmt.Errorf("building air: %w", err)
	}

	opts := starkconfig.DefaultProofOptions()
	if req.NumQueries > 0 {
		opts = opts.WithNumQueries(req.NumQueries)
	}
	if req.BlowupFactor > 0 {
		opts.BlowupFactor = req.BlowupFactor
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid proof options: %w", err)
	}

	claim := proof.NewClaim([5]uint64{}).WithOutput([]uint64{output.Big().Uint64()})

	logStderr("generating proof...")
	p, err := starkcore.Prove(a, base, claim, opts)
	if err != nil {
		return nil, fmt.Errorf("proof generation failed: %w", err)
	}
	logStderr(fmt.Sprintf("proof generated: %d items", p.Size()))

	roots := make([]string, 0)
	for _, r := range p.MerkleRoots() {
		roots = append(roots, hex.EncodeToString(r[:]))
	}
	var nonce uint64
	for _, item := range p.Items {
		if item.Type == proof.ItemGrindingNonce {
			nonce = item.Data.(uint64)
		}
	}

	return &ProveSummary{
		AIR:           "fibonacci",
		ProofItems:    p.Size(),
		MerkleRoots:   roots,
		Output:        output.Big().Uint64(),
		GrindingNonce: nonce,
	}, nil
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "starkcore-prove:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
