package http

import (
	"net/http"
	"strconv"

	"apnastay/pkg/config"
	apperrors "apnastay/pkg/errors"
)

// ActorHeader carries the authenticated user id. Session/auth mechanics live
// at the edge proxy; services only consume the resolved identity.
const ActorHeader = "X-User-ID"

func ExtractActor(r *http.Request) (string, error) {
	actor := r.Header.Get(ActorHeader)
	if actor == "" {
		return "", apperrors.Unauthorized("Missing user identity")
	}
	return actor, nil
}

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}
