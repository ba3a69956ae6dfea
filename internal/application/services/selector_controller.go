package services

import (
	"context"
	"sync"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	apperrors "github.com/zatekoja/chikitsamitra/pkg/errors"
	"github.com/zatekoja/chikitsamitra/pkg/utils"
)

// Selector group names
const (
	SelectorGroupAppointment = "appointment"
	SelectorGroupFinder      = "finder"
)

// SelectorDirectory is the subset of the directory a selector triple reads
type SelectorDirectory interface {
	ListStates(ctx context.Context) []string
	ListDistricts(ctx context.Context, state string) []string
	ListHospitals(ctx context.Context, state, district string) []string
}

// SelectorPlaceholders are the labels one control shows in each phase
type SelectorPlaceholders struct {
	Empty     string
	Loading   string
	Populated string
}

// SelectorLayout holds the placeholders of a state/district/hospital triple
type SelectorLayout struct {
	State    SelectorPlaceholders
	District SelectorPlaceholders
	Hospital SelectorPlaceholders
}

// AppointmentSelectorLayout labels the booking form selectors
var AppointmentSelectorLayout = SelectorLayout{
	State:    SelectorPlaceholders{Empty: "Choose a state", Loading: "Loading states...", Populated: "Choose a state"},
	District: SelectorPlaceholders{Empty: "Choose a state first", Loading: "Loading districts...", Populated: "Choose district"},
	Hospital: SelectorPlaceholders{Empty: "Choose a district first", Loading: "Loading hospitals...", Populated: "Choose hospital"},
}

// FinderSelectorLayout labels the hospital finder selectors
var FinderSelectorLayout = SelectorLayout{
	State:    SelectorPlaceholders{Empty: "Select state", Loading: "Loading states...", Populated: "Select state"},
	District: SelectorPlaceholders{Empty: "Select district", Loading: "Loading districts...", Populated: "Select district"},
	Hospital: SelectorPlaceholders{Empty: "Select hospital", Loading: "Loading hospitals...", Populated: "Select hospital"},
}

const (
	levelState = iota
	levelDistrict
	levelHospital
	levelCount
)

// SelectorController owns one cascading state/district/hospital triple.
// Fetches run outside the lock; each level carries a generation counter and
// a fetch result is applied only if its level has not moved on since.
type SelectorController struct {
	name      string
	layout    SelectorLayout
	directory SelectorDirectory
	events    providers.EventBus

	mu          sync.Mutex
	levels      [levelCount]entities.SelectorState
	generations [levelCount]uint64
}

// NewSelectorController creates a controller with every control empty
func NewSelectorController(name string, layout SelectorLayout, directory SelectorDirectory, events providers.EventBus) *SelectorController {
	c := &SelectorController{
		name:      name,
		layout:    layout,
		directory: directory,
		events:    events,
	}
	for level := range c.levels {
		c.levels[level] = emptySelector(c.placeholders(level).Empty)
	}
	return c
}

// Name returns the group name
func (c *SelectorController) Name() string {
	return c.name
}

// Snapshot returns the current state of the triple
func (c *SelectorController) Snapshot() entities.SelectorGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Mount loads the state list and resets the dependent controls
func (c *SelectorController) Mount(ctx context.Context) entities.SelectorGroup {
	c.mu.Lock()
	gen := c.beginLoadLocked(levelState)
	c.resetLocked(levelDistrict)
	c.resetLocked(levelHospital)
	loading := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(ctx, loading)

	states := c.directory.ListStates(context.WithoutCancel(ctx))
	return c.finishLoad(ctx, levelState, gen, states)
}

// SelectState selects value in the state control. An empty value clears the
// selection and every control below it.
func (c *SelectorController) SelectState(ctx context.Context, value string) (entities.SelectorGroup, error) {
	c.mu.Lock()
	selected, err := c.selectLocked(levelState, value)
	if err != nil {
		c.mu.Unlock()
		return entities.SelectorGroup{}, err
	}

	c.resetLocked(levelHospital)
	if selected == "" {
		c.resetLocked(levelDistrict)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.publish(ctx, snap)
		return snap, nil
	}

	gen := c.beginLoadLocked(levelDistrict)
	loading := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(ctx, loading)

	districts := c.directory.ListDistricts(context.WithoutCancel(ctx), selected)
	return c.finishLoad(ctx, levelDistrict, gen, districts), nil
}

// SelectDistrict selects value in the district control and loads its hospitals
func (c *SelectorController) SelectDistrict(ctx context.Context, value string) (entities.SelectorGroup, error) {
	c.mu.Lock()
	selected, err := c.selectLocked(levelDistrict, value)
	if err != nil {
		c.mu.Unlock()
		return entities.SelectorGroup{}, err
	}

	if selected == "" {
		c.resetLocked(levelHospital)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.publish(ctx, snap)
		return snap, nil
	}

	state := c.levels[levelState].Selected
	gen := c.beginLoadLocked(levelHospital)
	loading := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(ctx, loading)

	hospitals := c.directory.ListHospitals(context.WithoutCancel(ctx), state, selected)
	return c.finishLoad(ctx, levelHospital, gen, hospitals), nil
}

// SelectHospital selects value in the hospital control
func (c *SelectorController) SelectHospital(ctx context.Context, value string) (entities.SelectorGroup, error) {
	c.mu.Lock()
	if _, err := c.selectLocked(levelHospital, value); err != nil {
		c.mu.Unlock()
		return entities.SelectorGroup{}, err
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(ctx, snap)
	return snap, nil
}

// selectLocked validates value against the current options of level and
// records it. The canonical option spelling is returned.
func (c *SelectorController) selectLocked(level int, value string) (string, error) {
	value = utils.NormalizeText(value)
	if value == "" {
		c.levels[level].Selected = ""
		return "", nil
	}

	ctl := c.levels[level]
	if ctl.Phase == entities.SelectorPhasePopulated {
		for _, opt := range ctl.Options {
			if utils.EqualFold(opt, value) {
				c.levels[level].Selected = opt
				return opt, nil
			}
		}
	}

	field := levelName(level)
	return "", apperrors.NewValidationError(field, "Choose a valid "+field)
}

// beginLoadLocked puts level into the loading phase and returns the
// generation a fetch for it must present to be applied.
func (c *SelectorController) beginLoadLocked(level int) uint64 {
	c.generations[level]++
	c.levels[level] = entities.SelectorState{
		Phase:       entities.SelectorPhaseLoading,
		Placeholder: c.placeholders(level).Loading,
		Options:     []string{},
		Disabled:    true,
	}
	return c.generations[level]
}

// resetLocked empties level and invalidates any fetch in flight for it
func (c *SelectorController) resetLocked(level int) {
	c.generations[level]++
	c.levels[level] = emptySelector(c.placeholders(level).Empty)
}

func (c *SelectorController) finishLoad(ctx context.Context, level int, gen uint64, options []string) entities.SelectorGroup {
	c.mu.Lock()
	if c.generations[level] != gen {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}

	if options == nil {
		options = []string{}
	}
	c.levels[level] = entities.SelectorState{
		Phase:       entities.SelectorPhasePopulated,
		Placeholder: c.placeholders(level).Populated,
		Options:     options,
		Disabled:    len(options) == 0,
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(ctx, snap)
	return snap
}

func (c *SelectorController) snapshotLocked() entities.SelectorGroup {
	return entities.SelectorGroup{
		Name:     c.name,
		State:    cloneSelector(c.levels[levelState]),
		District: cloneSelector(c.levels[levelDistrict]),
		Hospital: cloneSelector(c.levels[levelHospital]),
	}
}

func (c *SelectorController) placeholders(level int) SelectorPlaceholders {
	switch level {
	case levelState:
		return c.layout.State
	case levelDistrict:
		return c.layout.District
	default:
		return c.layout.Hospital
	}
}

func (c *SelectorController) publish(ctx context.Context, snap entities.SelectorGroup) {
	publishEvent(ctx, c.events, entities.NewAssistantEvent(entities.AssistantEventSelectorUpdated, c.name, snap))
}

func emptySelector(placeholder string) entities.SelectorState {
	return entities.SelectorState{
		Phase:       entities.SelectorPhaseEmpty,
		Placeholder: placeholder,
		Options:     []string{},
		Disabled:    true,
	}
}

func cloneSelector(s entities.SelectorState) entities.SelectorState {
	s.Options = append([]string(nil), s.Options...)
	if s.Options == nil {
		s.Options = []string{}
	}
	return s
}

func levelName(level int) string {
	switch level {
	case levelState:
		return entities.SelectorLevelState
	case levelDistrict:
		return entities.SelectorLevelDistrict
	default:
		return entities.SelectorLevelHospital
	}
}
