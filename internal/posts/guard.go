package posts

import (
	"fmt"

	"github.com/inkpost/inkpost/internal/platform/httpx"
)

// AuthorizeMutation permits a mutation only when the verified identity
// equals the post's owner. It runs after the post is loaded and after
// authentication has produced the identity; client-supplied owner claims
// are never consulted. Reads bypass the guard entirely.
func AuthorizeMutation(userID int64, post *Post) error {
	if post == nil || post.OwnerID != userID {
		return fmt.Errorf("%w: only the owner may modify this post", httpx.ErrForbidden)
	}
	return nil
}
