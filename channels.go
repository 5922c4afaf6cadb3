package pusher

import "context"

// BuildChannelsInfo returns the signed request for listing occupied channels.
func (c *Client) BuildChannelsInfo(prefix string, attributes []string) (*Request, error) {
	return c.builder.ChannelsInfo(prefix, attributes)
}

// BuildChannelInfo returns the signed request for one channel's state.
func (c *Client) BuildChannelInfo(channel string, attributes []string) (*Request, error) {
	return c.builder.ChannelInfo(channel, attributes)
}

// BuildUsersInfo returns the signed request for a presence channel's members.
func (c *Client) BuildUsersInfo(channel string) (*Request, error) {
	return c.builder.UsersInfo(channel)
}

// BuildTerminateUserConnections returns the signed request that disconnects a user.
func (c *Client) BuildTerminateUserConnections(userID string) (*Request, error) {
	return c.builder.TerminateUserConnections(userID)
}

// ChannelsInfo lists occupied channels, optionally filtered by name prefix.
// attributes may include "user_count" for presence channels.
func (c *Client) ChannelsInfo(ctx context.Context, prefix string, attributes []string) (*ChannelList, error) {
	req, err := c.BuildChannelsInfo(prefix, attributes)
	if err != nil {
		return nil, err
	}
	var out ChannelList
	if err := c.send(ctx, c.transport, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChannelInfo returns the state of one channel.
func (c *Client) ChannelInfo(ctx context.Context, channel string, attributes []string) (*ChannelInfo, error) {
	req, err := c.BuildChannelInfo(channel, attributes)
	if err != nil {
		return nil, err
	}
	var out ChannelInfo
	if err := c.send(ctx, c.transport, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UsersInfo lists the members of a presence channel.
func (c *Client) UsersInfo(ctx context.Context, channel string) (*UserList, error) {
	req, err := c.BuildUsersInfo(channel)
	if err != nil {
		return nil, err
	}
	var out UserList
	if err := c.send(ctx, c.transport, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TerminateUserConnections disconnects every connection signed in as userID.
func (c *Client) TerminateUserConnections(ctx context.Context, userID string) error {
	req, err := c.BuildTerminateUserConnections(userID)
	if err != nil {
		return err
	}
	return c.send(ctx, c.transport, req, nil)
}
