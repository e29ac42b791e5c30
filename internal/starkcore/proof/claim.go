package proof

import "fmt"

// CurrentVersion is the claim format version this prover emits.
const CurrentVersion uint32 = 1

// Claim is the public statement a Proof attests to: "running program with
// digest ProgramDigest on PublicInput halts with PublicOutput". The prover
// never inspects program internals beyond its digest.
type Claim struct {
	ProgramDigest [5]uint64
	Version       uint32
	PublicInput   []uint64
	PublicOutput  []uint64
}

// NewClaim builds a claim at CurrentVersion.
func NewClaim(programDigest [5]uint64) *Claim {
	return &Claim{ProgramDigest: programDigest, Version: CurrentVersion}
}

// WithInput attaches public input and returns the claim for chaining.
func (c *Claim) WithInput(input []uint64) *Claim {
	c.PublicInput = input
	return c
}

// WithOutput attaches public output and returns the claim for chaining.
func (c *Claim) WithOutput(output []uint64) *Claim {
	c.PublicOutput = output
	return c
}

// Validate checks the claim carries a supported version.
func (c *Claim) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("proof: unsupported claim version %d (want %d)", c.Version, CurrentVersion)
	}
	return nil
}
