package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

func (that *Server) handleNewMatch(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleNewMatch")

	var payload Payload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return that.sendError(c, msg.Action, fmt.Errorf("failed to unmarshal payload: %w", err))
	}

	if payload.Setup == nil {
		return that.sendError(c, msg.Action, fmt.Errorf("setup is required"))
	}

	match, err := that.matches.CreateMatch(ctx, *payload.Setup)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	that.subscribe(match.ID, c)
	c.send(Message{Action: msg.Action, Payload: mustMarshal(Payload{Match: match})})

	log.Info("match created", "matchID", match.ID)

	return nil
}

func (that *Server) handleJoinMatch(ctx context.Context, msg *Message, c *client) error {
	payload, err := that.matchPayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	match, err := that.matches.GetMatch(ctx, payload.MatchID)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	that.subscribe(match.ID, c)
	that.broadcast(match.ID, Message{Action: msg.Action, Payload: mustMarshal(Payload{Match: match})})

	return nil
}

func (that *Server) handleMatchTurn(ctx context.Context, msg *Message, c *client) error {
	payload, err := that.matchPayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	if payload.Row == nil || payload.Col == nil {
		return that.sendError(c, msg.Action, errCellRequired)
	}

	match, result, err := that.matches.PlayRound(ctx, payload.MatchID, *payload.Row, *payload.Col)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	that.broadcast(match.ID, Message{Action: msg.Action, Payload: mustMarshal(Payload{Match: match, Result: &result})})

	if result.IsTerminal() && !match.IsSeriesOver() {
		that.scheduleNextRound(match.ID, match.Round)
	}

	return nil
}

func (that *Server) handleMatchReset(ctx context.Context, msg *Message, c *client) error {
	payload, err := that.matchPayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	match, err := that.matches.ResetRound(ctx, payload.MatchID)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	that.broadcast(match.ID, Message{Action: msg.Action, Payload: mustMarshal(Payload{Match: match})})

	return nil
}

func (that *Server) handleMatchLeave(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleMatchLeave")

	payload, err := that.matchPayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	if err = that.matches.EndMatch(ctx, payload.MatchID); err != nil {
		return that.sendError(c, msg.Action, err)
	}

	response := Message{Action: msg.Action, Payload: mustMarshal(Payload{MatchID: payload.MatchID})}
	notified := false
	for _, subscriber := range that.dropMatch(payload.MatchID) {
		subscriber.send(response)
		notified = notified || subscriber == c
	}

	if !notified {
		c.send(response)
	}

	log.Info("match left", "matchID", payload.MatchID)

	return nil
}

func (that *Server) matchPayload(msg *Message) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return Payload{}, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.MatchID == "" {
		return Payload{}, errMatchIDRequired
	}

	return payload, nil
}

// sendError reports the failure to the requesting client only.
func (that *Server) sendError(c *client, action string, err error) error {
	c.send(Message{Action: action, Payload: mustMarshal(Payload{Error: err.Error()})})

	return err
}
