package protocol

import (
	"github.com/lox/klondike/internal/klondike"
)

// Action is the wire form of klondike.Action. Exactly one member is set.
//
//	{"draw":{}}
//	{"build_foundation":{"source":{"tableau":{"index":2}}}}
//	{"build_tableau":{"source":{"tableau":{"index":1,"size":2}},"destination":4}}
type Action struct {
	Draw            *DrawAction      `json:"draw,omitempty"`
	BuildFoundation *BuildFoundation `json:"build_foundation,omitempty"`
	BuildTableau    *BuildTableau    `json:"build_tableau,omitempty"`
}

// DrawAction has no fields
type DrawAction struct{}

// Waste selects the top of the waste pile
type Waste struct{}

type BuildFoundation struct {
	Source *FoundationSource `json:"source"`
}

// FoundationSource is either the waste or the bottom card of a tableau
type FoundationSource struct {
	Waste   *Waste        `json:"waste,omitempty"`
	Tableau *TableauIndex `json:"tableau,omitempty"`
}

type TableauIndex struct {
	Index int `json:"index"`
}

type BuildTableau struct {
	Source      *TableauSource `json:"source"`
	Destination *int           `json:"destination"`
}

// TableauSource is either the waste or a run of upturned cards
type TableauSource struct {
	Waste   *Waste      `json:"waste,omitempty"`
	Tableau *TableauRun `json:"tableau,omitempty"`
}

type TableauRun struct {
	Index int `json:"index"`
	Size  int `json:"size"`
}

// ActionFromCore converts an engine action to its wire form
func ActionFromCore(a klondike.Action) Action {
	switch a.Kind {
	case klondike.ActionBuildFoundation:
		src := &FoundationSource{}
		if a.From.Pile == klondike.FromWaste {
			src.Waste = &Waste{}
		} else {
			src.Tableau = &TableauIndex{Index: a.From.Index}
		}
		return Action{BuildFoundation: &BuildFoundation{Source: src}}

	case klondike.ActionBuildTableau:
		src := &TableauSource{}
		if a.From.Pile == klondike.FromWaste {
			src.Waste = &Waste{}
		} else {
			src.Tableau = &TableauRun{Index: a.From.Index, Size: a.From.Size}
		}
		dst := a.To
		return Action{BuildTableau: &BuildTableau{Source: src, Destination: &dst}}
	}
	return Action{Draw: &DrawAction{}}
}

// ToCore validates the wire action and converts it. Errors wrap
// ErrInvalidArgument and name the offending field.
func (a *Action) ToCore() (klondike.Action, error) {
	if a == nil {
		return klondike.Action{}, invalidArgument("action", "is required")
	}

	set := 0
	for _, present := range []bool{a.Draw != nil, a.BuildFoundation != nil, a.BuildTableau != nil} {
		if present {
			set++
		}
	}
	switch {
	case set == 0:
		return klondike.Action{}, invalidArgument("action", "needs one of draw, build_foundation or build_tableau")
	case set > 1:
		return klondike.Action{}, invalidArgument("action", "has more than one kind set")
	}

	switch {
	case a.Draw != nil:
		return klondike.Draw(), nil

	case a.BuildFoundation != nil:
		src, err := a.BuildFoundation.Source.toCore("action.build_foundation.source")
		if err != nil {
			return klondike.Action{}, err
		}
		return klondike.BuildFoundation(src), nil

	default:
		bt := a.BuildTableau
		src, err := bt.Source.toCore("action.build_tableau.source")
		if err != nil {
			return klondike.Action{}, err
		}
		if bt.Destination == nil {
			return klondike.Action{}, invalidArgument("action.build_tableau.destination", "is required")
		}
		if *bt.Destination < 0 {
			return klondike.Action{}, invalidArgument("action.build_tableau.destination", "must not be negative")
		}
		return klondike.BuildTableau(src, *bt.Destination), nil
	}
}

func (s *FoundationSource) toCore(path string) (klondike.Source, error) {
	switch {
	case s == nil || (s.Waste == nil && s.Tableau == nil):
		return klondike.Source{}, invalidArgument(path, "needs one of waste or tableau")
	case s.Waste != nil && s.Tableau != nil:
		return klondike.Source{}, invalidArgument(path, "has both waste and tableau set")
	case s.Waste != nil:
		return klondike.WasteTop(), nil
	}
	if s.Tableau.Index < 0 {
		return klondike.Source{}, invalidArgument(path+".tableau.index", "must not be negative")
	}
	return klondike.TableauBottom(s.Tableau.Index), nil
}

func (s *TableauSource) toCore(path string) (klondike.Source, error) {
	switch {
	case s == nil || (s.Waste == nil && s.Tableau == nil):
		return klondike.Source{}, invalidArgument(path, "needs one of waste or tableau")
	case s.Waste != nil && s.Tableau != nil:
		return klondike.Source{}, invalidArgument(path, "has both waste and tableau set")
	case s.Waste != nil:
		return klondike.WasteTop(), nil
	}
	if s.Tableau.Index < 0 {
		return klondike.Source{}, invalidArgument(path+".tableau.index", "must not be negative")
	}
	if s.Tableau.Size < 0 {
		return klondike.Source{}, invalidArgument(path+".tableau.size", "must not be negative")
	}
	return klondike.TableauRun(s.Tableau.Index, s.Tableau.Size), nil
}
