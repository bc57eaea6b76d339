package client

import (
	"context"
	"fmt"
)

// ProfileByAuthID fetches the display profile for an author identifier.
// This feeds the name resolution cache; callers translate failures into a
// deterministic fallback label rather than retrying.
func (c *Client) ProfileByAuthID(ctx context.Context, userID string) (Profile, error) {
	var profile Profile
	endpoint := fmt.Sprintf("api/profiles/auth/%s", userID)
	if err := c.get(ctx, endpoint, &profile); err != nil {
		return Profile{}, fmt.Errorf("fetching profile %s: %w", userID, err)
	}
	return profile, nil
}

// SendMessage submits a contact-form message.
func (c *Client) SendMessage(ctx context.Context, msg Message) error {
	if err := c.post(ctx, "api/messages", msg, nil); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}
