package records

import (
	"fmt"
	"math/rand"
)

// Generator produces deterministic synthetic record sets for demos and tests.
// The same seed always yields the same records.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with a fixed seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// GenerateOptions controls the shape of a synthetic record set.
type GenerateOptions struct {
	Parties     int   // number of distinct party ids
	Records     int   // number of records to emit
	Files       int   // number of source file ids to spread records across
	Towers      int   // number of tower ids (0 disables tower tagging)
	StartMs     int64 // timestamp of the earliest possible record
	WindowMs    int64 // records are spread uniformly over [StartMs, StartMs+WindowMs)
	HubParty    int   // index of a party that participates in extra interactions (-1 disables)
	HubFraction int   // approximate percentage of records forced onto the hub party
}

// Generate emits a synthetic record set. Party ids look like phone numbers so
// demo output reads like real CDR data.
func (g *Generator) Generate(opts GenerateOptions) []InteractionRecord {
	if opts.Parties < 2 || opts.Records <= 0 {
		return nil
	}
	if opts.Files <= 0 {
		opts.Files = 1
	}
	if opts.WindowMs <= 0 {
		opts.WindowMs = 1
	}

	parties := make([]string, opts.Parties)
	for i := range parties {
		parties[i] = fmt.Sprintf("5550%04d", 1000+i)
	}

	usageTypes := []string{UsageOutgoingCall, UsageIncomingCall, UsageOutgoingSMS, UsageIncomingSMS}

	out := make([]InteractionRecord, 0, opts.Records)
	for i := 0; i < opts.Records; i++ {
		a := g.rng.Intn(opts.Parties)
		if opts.HubParty >= 0 && opts.HubParty < opts.Parties && g.rng.Intn(100) < opts.HubFraction {
			a = opts.HubParty
		}
		b := g.rng.Intn(opts.Parties - 1)
		if b >= a {
			b++
		}

		usage := usageTypes[g.rng.Intn(len(usageTypes))]
		duration := int64(0)
		if usage == UsageOutgoingCall || usage == UsageIncomingCall {
			duration = int64(g.rng.Intn(600) + 5)
		}

		rec := InteractionRecord{
			InitiatorID:     parties[a],
			RecipientID:     parties[b],
			UsageType:       usage,
			TimestampMs:     opts.StartMs + g.rng.Int63n(opts.WindowMs),
			DurationSeconds: duration,
			FileID:          fmt.Sprintf("file-%d", g.rng.Intn(opts.Files)+1),
		}
		if opts.Towers > 0 {
			rec.TowerID = fmt.Sprintf("tower-%d", g.rng.Intn(opts.Towers)+1)
		}
		out = append(out, rec)
	}

	return out
}
