package cli

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
	"github.com/matzehuels/waypoint/pkg/routers"
)

// parseAction reads an action from its JSON wire shape or from the
// shorthand TYPE[:ARG] used on the command line:
//
//	PUSH:Article  NAVIGATE:Home  JUMP_TO:Settings  REPLACE:Login
//	POP  POP:2  POP_TO_TOP  GO_BACK
//	OPEN_DRAWER  CLOSE_DRAWER  TOGGLE_DRAWER
//
// params, when non-nil, is attached to actions that carry a route name.
func parseAction(s string, params nav.Params) (nav.Action, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		return nav.DecodeAction([]byte(s))
	}

	typ, arg, hasArg := strings.Cut(s, ":")
	typ = strings.ToUpper(strings.ReplaceAll(typ, "-", "_"))

	switch typ {
	case routers.ActionPush, routers.ActionNavigate, routers.ActionJumpTo, routers.ActionReplace:
		if arg == "" {
			return nav.Action{}, errors.New(errors.ErrCodeInvalidAction, "%s needs a route name (%s:Name)", typ, typ)
		}
		return nav.Action{Type: typ, Payload: &nav.Payload{Name: arg, Params: params}}, nil

	case routers.ActionPop:
		count := 1
		if hasArg {
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 {
				return nav.Action{}, errors.New(errors.ErrCodeInvalidAction, "POP count must be a positive integer, got %q", arg)
			}
			count = n
		}
		return routers.Pop(count), nil

	case routers.ActionSetParams:
		if hasArg {
			return nav.Action{}, errors.New(errors.ErrCodeInvalidAction, "SET_PARAMS takes its values from --params")
		}
		return routers.SetParams(params), nil

	case routers.ActionGoBack, routers.ActionPopToTop,
		routers.ActionOpenDrawer, routers.ActionCloseDrawer, routers.ActionToggleDrawer:
		if hasArg {
			return nav.Action{}, errors.New(errors.ErrCodeInvalidAction, "%s takes no argument", typ)
		}
		return nav.Action{Type: typ}, nil

	case routers.ActionReset:
		return nav.Action{}, errors.New(errors.ErrCodeInvalidAction, "RESET needs a state; pass the action as JSON")

	default:
		return nav.Action{}, errors.New(errors.ErrCodeInvalidAction, "unknown action %q", s)
	}
}

// parseParams decodes a JSON object given with --params.
func parseParams(s string) (nav.Params, error) {
	if s == "" {
		return nil, nil
	}
	var p nav.Params
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "--params must be a JSON object")
	}
	return p, nil
}
