package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed league.default.yaml
var defaultLeagueYAML []byte

// League is the static definition of one league: who plays, how strong each
// owner is, what every round is worth and which future seasons to seed.
type League struct {
	ID         int64
	Owners     []owner.Owner
	Strength   pick.StrengthTable
	BaseValues pick.BaseValues
	Future     FutureSeasons
}

type FutureSeasons struct {
	StartSeason int `yaml:"start_season" validate:"required,gt=0"`
	EndSeason   int `yaml:"end_season" validate:"required,gtfield=StartSeason"`
	Rounds      int `yaml:"rounds" validate:"required,gt=0"`
}

type leagueFile struct {
	LeagueID   int64          `yaml:"league_id" validate:"required,gt=0"`
	Owners     []ownerEntry   `yaml:"owners" validate:"required,min=1,dive"`
	BaseValues map[int]string `yaml:"base_values" validate:"omitempty,dive,keys,gte=1,endkeys,required"`
	Future     FutureSeasons  `yaml:"future" validate:"required"`
}

type ownerEntry struct {
	ID       int64  `yaml:"id" validate:"required,gt=0"`
	Name     string `yaml:"name" validate:"required"`
	Strength string `yaml:"strength" validate:"required"`
}

var leagueValidator = validator.New(validator.WithRequiredStructEnabled())

// LoadLeague reads the league definition from path. An empty path selects
// the built-in league. ${VAR} references are expanded from the environment.
func LoadLeague(path string) (League, error) {
	raw := defaultLeagueYAML
	source := "built-in league"
	if strings.TrimSpace(path) != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return League{}, fmt.Errorf("read league file %s: %w", path, err)
		}
		raw = content
		source = path
	}

	league, err := ParseLeague(raw)
	if err != nil {
		return League{}, fmt.Errorf("%s: %w", source, err)
	}
	return league, nil
}

func ParseLeague(raw []byte) (League, error) {
	var file leagueFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &file); err != nil {
		return League{}, fmt.Errorf("decode league yaml: %w", err)
	}
	if err := leagueValidator.Struct(file); err != nil {
		return League{}, fmt.Errorf("validate league: %w", err)
	}

	league := League{
		ID:       file.LeagueID,
		Owners:   make([]owner.Owner, 0, len(file.Owners)),
		Strength: make(pick.StrengthTable, len(file.Owners)),
		Future:   file.Future,
	}
	for _, entry := range file.Owners {
		strength, err := decimal.NewFromString(strings.TrimSpace(entry.Strength))
		if err != nil {
			return League{}, fmt.Errorf("owner %d strength %q: %w", entry.ID, entry.Strength, err)
		}
		league.Owners = append(league.Owners, owner.Owner{ID: entry.ID, Name: entry.Name})
		league.Strength[entry.ID] = strength
	}
	if err := league.Strength.Validate(); err != nil {
		return League{}, err
	}

	if len(file.BaseValues) == 0 {
		league.BaseValues = pick.DefaultBaseValues()
	} else {
		league.BaseValues = make(pick.BaseValues, len(file.BaseValues))
		for round, text := range file.BaseValues {
			v, err := decimal.NewFromString(strings.TrimSpace(text))
			if err != nil {
				return League{}, fmt.Errorf("base value round %d %q: %w", round, text, err)
			}
			league.BaseValues[round] = v
		}
	}
	if err := league.BaseValues.Validate(); err != nil {
		return League{}, err
	}

	return league, nil
}

// Directory builds the owner directory for the league.
func (l League) Directory() (*owner.Directory, error) {
	return owner.NewDirectory(l.Owners)
}

// Valuator builds the valuation engine and checks every owner has a strength.
func (l League) Valuator() (*pick.Valuator, error) {
	v, err := pick.NewValuator(l.BaseValues, l.Strength)
	if err != nil {
		return nil, err
	}
	if err := v.CheckOwners(l.Owners); err != nil {
		return nil, err
	}
	return v, nil
}
