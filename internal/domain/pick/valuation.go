package pick

import (
	"fmt"

	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
	"github.com/shopspring/decimal"
)

const valuePlaces = 2

// seasonDiscount is applied once per season between the pick and the reference season.
var seasonDiscount = decimal.New(90, -2)

var minimumBaseValue = decimal.NewFromInt(1)

// BaseValues maps draft round to its undiscounted worth.
type BaseValues map[int]decimal.Decimal

func DefaultBaseValues() BaseValues {
	return BaseValues{
		1: decimal.NewFromInt(1000),
		2: decimal.NewFromInt(350),
		3: decimal.NewFromInt(150),
		4: decimal.NewFromInt(75),
		5: decimal.NewFromInt(35),
		6: decimal.NewFromInt(15),
	}
}

// For returns the base value of round; rounds without an entry are worth 1.
func (b BaseValues) For(round int) decimal.Decimal {
	if v, ok := b[round]; ok {
		return v
	}
	return minimumBaseValue
}

func (b BaseValues) Validate() error {
	for round, v := range b {
		if round < MinRound {
			return fmt.Errorf("%w: base value round=%d must be >= %d", ErrInvalidValuation, round, MinRound)
		}
		if v.IsNegative() {
			return fmt.Errorf("%w: base value round=%d is negative", ErrInvalidValuation, round)
		}
	}
	return nil
}

// StrengthRater supplies the competitive-strength multiplier of an owner.
type StrengthRater interface {
	Strength(ownerID int64) (decimal.Decimal, error)
}

// StrengthTable is a fixed multiplier per owner id.
type StrengthTable map[int64]decimal.Decimal

func (t StrengthTable) Strength(ownerID int64) (decimal.Decimal, error) {
	v, ok := t[ownerID]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: owner=%d", ErrMissingStrength, ownerID)
	}
	return v, nil
}

func (t StrengthTable) Validate() error {
	for ownerID, v := range t {
		if v.IsNegative() {
			return fmt.Errorf("%w: strength for owner=%d is negative", ErrInvalidValuation, ownerID)
		}
	}
	return nil
}

// Valuator prices picks from round, original owner strength and season distance.
type Valuator struct {
	base     BaseValues
	strength StrengthRater
}

func NewValuator(base BaseValues, strength StrengthRater) (*Valuator, error) {
	if base == nil {
		base = DefaultBaseValues()
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if strength == nil {
		return nil, fmt.Errorf("%w: strength rater is required", ErrInvalidValuation)
	}

	return &Valuator{
		base:     base,
		strength: strength,
	}, nil
}

// CheckOwners fails when any owner has no usable strength multiplier.
func (v *Valuator) CheckOwners(owners []owner.Owner) error {
	for _, o := range owners {
		m, err := v.strength.Strength(o.ID)
		if err != nil {
			return err
		}
		if m.IsNegative() {
			return fmt.Errorf("%w: strength for owner=%d is negative", ErrInvalidValuation, o.ID)
		}
	}
	return nil
}

func (v *Valuator) Value(round int, originalOwnerID int64, pickSeason, referenceSeason int) (decimal.Decimal, error) {
	if !SeasonInRange(pickSeason) || !SeasonInRange(referenceSeason) {
		return decimal.Zero, fmt.Errorf("%w: season=%d reference=%d outside %d-%d",
			ErrInvalidValuation, pickSeason, referenceSeason, EarliestSeason, LatestSeason)
	}
	multiplier, err := v.strength.Strength(originalOwnerID)
	if err != nil {
		return decimal.Zero, err
	}
	if multiplier.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: strength for owner=%d is negative", ErrInvalidValuation, originalOwnerID)
	}

	return ComputeValue(v.base.For(round), multiplier, pickSeason, referenceSeason), nil
}

// Apply returns a copy of records with Value recomputed against referenceSeason.
func (v *Valuator) Apply(records []Record, referenceSeason int) ([]Record, error) {
	out := cloneRecords(records)
	for i := range out {
		value, err := v.Value(out[i].Round, out[i].OriginalOwner.ID, out[i].Season, referenceSeason)
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", out[i].Key(), err)
		}
		out[i].Value = value
	}
	return out, nil
}

// ComputeValue is base * multiplier * 0.90^(pickSeason-referenceSeason), rounded to 2 places.
func ComputeValue(base, multiplier decimal.Decimal, pickSeason, referenceSeason int) decimal.Decimal {
	return base.Mul(multiplier).Mul(SeasonDiscount(pickSeason, referenceSeason)).Round(valuePlaces)
}

// SeasonDiscount compounds 10% per season out. Seasons before the reference invert it.
func SeasonDiscount(pickSeason, referenceSeason int) decimal.Decimal {
	distance := pickSeason - referenceSeason
	factor := decimal.NewFromInt(1)
	for i := 0; i < distance; i++ {
		factor = factor.Mul(seasonDiscount)
	}
	for i := 0; i > distance; i-- {
		factor = factor.Div(seasonDiscount)
	}
	return factor
}

// ReferenceSeason is the earliest fetched season, or the earliest merged one when
// nothing was fetched.
func ReferenceSeason(current, merged []Record) (int, bool) {
	if season, ok := MinSeason(current); ok {
		return season, true
	}
	return MinSeason(merged)
}
