package lobby

import (
	"net"

	"github.com/playforge/core/internal/catalog"
)

// hasPlayHistory implements the play-history predicate shared by
// submit_review and check_play_history: the user must have a GameLog
// entry matching either (a) the same gameId and the game's currently
// recorded version, or (b) a room bound to the same game.
func hasPlayHistory(s *Server, userID, gameID uint32) (bool, error) {
	user, ok, err := userByID(s, userID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	var queried struct {
		GameLogs []catalog.GameLog `json:"gameLogs"`
	}
	if err := s.ds.Call("GameLog", "query", map[string]interface{}{"userId": user.Name}, &queried); err != nil {
		return false, err
	}

	game, ok, err := gameByID(s, gameID)
	if err != nil {
		return false, err
	}

	for _, log := range queried.GameLogs {
		if log.GameID != gameID {
			continue
		}
		if ok && log.GameVersion == game.CurrentVersion {
			return true, nil
		}
		var got struct {
			Room catalog.Room `json:"room"`
		}
		if err := s.ds.Call("Room", "read", map[string]interface{}{"id": log.RoomID}, &got); err == nil {
			if got.Room.GameID == gameID {
				return true, nil
			}
		}
	}
	return false, nil
}

type submitReviewRequest struct {
	UserID uint32 `json:"userId"`
	GameID uint32 `json:"gameId"`
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

func handleSubmitReview(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req submitReviewRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}
	if req.Rating < 0 || req.Rating > 5 {
		return errorResponse("rating must be in [0, 5]")
	}

	played, err := hasPlayHistory(s, req.UserID, req.GameID)
	if err != nil {
		return errorResponse(err.Error())
	}
	if !played {
		if s.metrics != nil {
			s.metrics.ReviewsRejected.Inc()
		}
		return errorResponse("no play history for this game")
	}

	err = s.ds.Call("Game", "add_rating", map[string]interface{}{
		"gameId": req.GameID,
		"userId": req.UserID,
		"rating": req.Rating,
		"review": req.Review,
	}, nil)
	if err != nil {
		return errorResponse(err.Error())
	}

	if s.metrics != nil {
		s.metrics.ReviewsSubmitted.Inc()
	}
	return successResponse(nil)
}

type checkPlayHistoryRequest struct {
	UserID uint32 `json:"userId"`
	GameID uint32 `json:"gameId"`
}

func handleCheckPlayHistory(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req checkPlayHistoryRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	played, err := hasPlayHistory(s, req.UserID, req.GameID)
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(response{"played": played})
}
