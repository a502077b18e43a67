package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// IncrementTier applies Step to every price strictly below Below.
type IncrementTier struct {
	Below int64
	Step  int64
}

// IncrementPolicy decides the smallest raise a bid must add to the current
// price. Tiers are checked in ascending order of Below; prices above the last
// tier use Top.
type IncrementPolicy struct {
	Tiers []IncrementTier
	Top   int64
}

func DefaultIncrementPolicy() *IncrementPolicy {
	return &IncrementPolicy{
		Tiers: []IncrementTier{
			{Below: 10000, Step: 10},
			{Below: 100000, Step: 100},
		},
		Top: 1000,
	}
}

func (p *IncrementPolicy) MinIncrement(current int64) int64 {
	for _, tier := range p.Tiers {
		if current < tier.Below {
			return tier.Step
		}
	}
	return p.Top
}

// ParseIncrementPolicy reads "below:step,...,top", e.g. "10000:10,100000:100,1000".
// An empty string yields the default policy.
func ParseIncrementPolicy(tiers string) (*IncrementPolicy, error) {
	tiers = strings.TrimSpace(tiers)
	if tiers == "" {
		return DefaultIncrementPolicy(), nil
	}

	parts := strings.Split(tiers, ",")
	policy := &IncrementPolicy{}

	for i, part := range parts {
		part = strings.TrimSpace(part)
		last := i == len(parts)-1

		if last && !strings.Contains(part, ":") {
			top, err := parsePositive(part)
			if err != nil {
				return nil, fmt.Errorf("increment tiers: top step %q: %w", part, err)
			}
			policy.Top = top
			continue
		}

		below, step, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("increment tiers: %q is not below:step", part)
		}
		b, err := parsePositive(below)
		if err != nil {
			return nil, fmt.Errorf("increment tiers: threshold %q: %w", below, err)
		}
		s, err := parsePositive(step)
		if err != nil {
			return nil, fmt.Errorf("increment tiers: step %q: %w", step, err)
		}
		policy.Tiers = append(policy.Tiers, IncrementTier{Below: b, Step: s})
	}

	if policy.Top == 0 {
		return nil, fmt.Errorf("increment tiers: missing top step in %q", tiers)
	}

	sort.Slice(policy.Tiers, func(i, j int) bool {
		return policy.Tiers[i].Below < policy.Tiers[j].Below
	})

	return policy, nil
}

func parsePositive(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return v, nil
}
