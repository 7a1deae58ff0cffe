package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pollaroo/pollaroo-go/pkg/logger"
)

// ListPolls returns public polls, optionally narrowed by filter.
func (c *Client) ListPolls(ctx context.Context, filter PollFilter) ([]Poll, error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}

	var polls []Poll
	if err := c.do(ctx, http.MethodGet, pathPolls, query, nil, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// MyPolls returns the authenticated user's polls, public or not.
func (c *Client) MyPolls(ctx context.Context) ([]Poll, error) {
	var polls []Poll
	if err := c.do(ctx, http.MethodGet, pathMyPolls, nil, nil, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// GetPoll fetches one public poll with its options.
func (c *Client) GetPoll(ctx context.Context, id int64) (*PollDetail, error) {
	var poll PollDetail
	if err := c.do(ctx, http.MethodGet, pathPoll(id), nil, nil, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

// CreatePoll creates a poll owned by the authenticated user. The server
// echoes the accepted attributes without an ID; call MyPolls to pick up the
// assigned one.
func (c *Client) CreatePoll(ctx context.Context, req CreatePollRequest) (*CreatedPoll, error) {
	var created CreatedPoll
	if err := c.do(ctx, http.MethodPost, pathPollCreate, nil, req, &created); err != nil {
		return nil, err
	}
	c.log.InfoContext(ctx, "poll created")
	return &created, nil
}

// UpdatePoll replaces a poll the authenticated user owns.
func (c *Client) UpdatePoll(ctx context.Context, id int64, req CreatePollRequest) (*CreatedPoll, error) {
	var updated CreatedPoll
	if err := c.do(ctx, http.MethodPut, pathPollUpdate(id), nil, req, &updated); err != nil {
		return nil, err
	}
	c.log.InfoContext(ctx, "poll updated", logger.PollID(id))
	return &updated, nil
}

// DeletePoll removes a poll the authenticated user owns.
func (c *Client) DeletePoll(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, pathPollDelete(id), nil, nil, nil); err != nil {
		return err
	}
	c.log.InfoContext(ctx, "poll deleted", logger.PollID(id))
	return nil
}

// Vote casts or changes a vote on a poll. Voting again on the same poll
// moves the vote to the new option.
func (c *Client) Vote(ctx context.Context, pollID, optionID int64) error {
	body := struct {
		OptionID int64 `json:"option_id"`
	}{OptionID: optionID}

	return c.do(ctx, http.MethodPost, pathPollVote(pollID), nil, body, nil)
}

// Results fetches the current tally for a public poll.
func (c *Client) Results(ctx context.Context, pollID int64) (*PollResults, error) {
	var results PollResults
	if err := c.do(ctx, http.MethodGet, pathPollResults(pollID), nil, nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// ShareLink fetches the shareable frontend URL for a poll the authenticated
// user owns.
func (c *Client) ShareLink(ctx context.Context, pollID int64) (*ShareInfo, error) {
	var info ShareInfo
	if err := c.do(ctx, http.MethodGet, pathPollShare(pollID), nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
