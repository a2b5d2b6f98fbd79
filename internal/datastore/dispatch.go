package datastore

import "fmt"

// handlerFunc executes one (collection, action) request against the
// server's store and produces the reply fields.
type handlerFunc func(s *Server, data map[string]interface{}) response

// registry is the tagged-variant dispatch table of §9: one entry per
// (collection, action) pair, built once at package init so a missing
// handler is caught by TestRegistryIsExhaustive rather than discovered
// at runtime through a fallthrough default case.
var registry = map[string]map[string]handlerFunc{
	"User": {
		"create": handleUserCreate,
		"read":   handleUserRead,
		"query":  handleUserQuery,
		"update": handleUserUpdate,
	},
	"Developer": {
		"create": handleDeveloperCreate,
		"read":   handleDeveloperRead,
		"query":  handleDeveloperQuery,
		"update": handleDeveloperUpdate,
	},
	"Game": {
		"create":     handleGameCreate,
		"read":       handleGameRead,
		"query":      handleGameQuery,
		"update":     handleGameUpdate,
		"add_rating": handleGameAddRating,
		"delete":     handleGameDelete,
	},
	"Room": {
		"create": handleRoomCreate,
		"read":   handleRoomRead,
		"update": handleRoomUpdate,
		"delete": handleRoomDelete,
		"query":  handleRoomQuery,
	},
	"GameLog": {
		"create": handleGameLogCreate,
		"read":   handleGameLogRead,
		"update": handleGameLogUpdate,
		"query":  handleGameLogQuery,
	},
}

func (s *Server) dispatch(req Envelope) response {
	actions, ok := registry[req.Collection]
	if !ok {
		return errorResponse(fmt.Sprintf("unknown collection %q", req.Collection))
	}
	handler, ok := actions[req.Action]
	if !ok {
		return errorResponse(fmt.Sprintf("unknown action %q for collection %q", req.Action, req.Collection))
	}
	return handler(s, req.Data)
}
