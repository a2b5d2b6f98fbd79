package lobby

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// matchClaims is the JWT payload minted for one match at spawn time and
// echoed back in the game_ended callback (§9 open question 3, resolved).
type matchClaims struct {
	RoomID  uint32 `json:"roomId"`
	MatchID string `json:"matchId"`
	jwt.RegisteredClaims
}

// mintMatchToken signs a token binding matchID to roomID, valid for ttl.
func mintMatchToken(signingKey string, roomID uint32, matchID string, ttl time.Duration) (string, error) {
	claims := matchClaims{
		RoomID:  roomID,
		MatchID: matchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signingKey))
	if err != nil {
		return "", fmt.Errorf("lobby: signing match token: %w", err)
	}
	return signed, nil
}

// verifyMatchToken checks tokenString was minted for (roomID, matchID)
// and has not expired.
func verifyMatchToken(signingKey, tokenString string, roomID uint32, matchID string) error {
	claims := &matchClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(signingKey), nil
	})
	if err != nil {
		return fmt.Errorf("lobby: invalid match token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("lobby: match token not valid")
	}
	if claims.RoomID != roomID || claims.MatchID != matchID {
		return fmt.Errorf("lobby: match token does not match this callback")
	}
	return nil
}
