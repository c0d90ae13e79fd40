// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hub

import (
	"context"
	"fmt"

	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/response"
	"github.com/public-awesome/badges/state"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (h *Hub) startSpan(
	ctx context.Context,
	name string,
) (context.Context, trace.Span) {
	return h.tracer.Start(
		ctx,
		"hub."+name,
		trace.WithAttributes(attribute.String("action", action(name))),
	)
}

func (h *Hub) finish(
	span trace.Span,
	name string,
	res response.Response,
	err error,
) (response.Response, error) {
	defer span.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.Debug(
			"operation failed",
			"action", action(name),
			"error", err,
		)
		return response.Response{}, err
	}
	h.logger.Debug(
		"operation executed",
		"action", action(name),
		"messages", len(res.Messages),
	)
	return res, nil
}

// Instantiate initializes the registry state. info.Sender becomes the
// developer that receives a share of all fees.
func (h *Hub) Instantiate(
	ctx context.Context,
	s state.Store,
	env Env,
	info MessageInfo,
	msg InstantiateMsg,
) (response.Response, error) {
	_, span := h.startSpan(ctx, "init")
	res, err := h.instantiate(s, env, info, msg)
	return h.finish(span, "init", res, err)
}

// Reply handles the host's report of the NFT sub-ledger deployment
func (h *Hub) Reply(
	ctx context.Context,
	s state.Store,
	msg ReplyMsg,
) (response.Response, error) {
	_, span := h.startSpan(ctx, "init_hook")
	res, err := h.reply(s, msg)
	return h.finish(span, "init_hook", res, err)
}

func (h *Hub) Sudo(
	ctx context.Context,
	s state.Store,
	msg SudoMsg,
) (response.Response, error) {
	if msg.SetFeeRate == nil {
		return response.Response{}, fmt.Errorf(
			"%w: expected exactly one operation, found 0",
			ErrInvalidMsg,
		)
	}
	_, span := h.startSpan(ctx, "set_fee_rate")
	res, err := h.setFeeRate(s, msg.SetFeeRate.FeeRate)
	return h.finish(span, "set_fee_rate", res, err)
}

// Migrate upgrades state written by an earlier version of the registry.
// Upgrading from 1.0.0 keeps the stored per-byte fee as both the metadata
// and the key rate rather than installing new default rates.
func (h *Hub) Migrate(
	ctx context.Context,
	s state.Store,
) (response.Response, error) {
	_, span := h.startSpan(ctx, "migrate")
	res, err := h.migrate(s)
	return h.finish(span, "migrate", res, err)
}

// Execute validates the raw inputs of msg and runs the operation it carries
func (h *Hub) Execute(
	ctx context.Context,
	s state.Store,
	env Env,
	info MessageInfo,
	msg ExecuteMsg,
) (response.Response, error) {
	name, err := msg.Action()
	if err != nil {
		return response.Response{}, err
	}
	_, span := h.startSpan(ctx, name)
	res, err := h.execute(s, env, info, msg)
	return h.finish(span, name, res, err)
}

func (h *Hub) execute(
	s state.Store,
	env Env,
	info MessageInfo,
	msg ExecuteMsg,
) (response.Response, error) {
	switch {
	case msg.CreateBadge != nil:
		b, err := h.badgeFromMsg(msg.CreateBadge)
		if err != nil {
			return response.Response{}, err
		}
		return h.CreateBadge(s, env, info, b)
	case msg.EditBadge != nil:
		return h.EditBadge(s, info, msg.EditBadge.ID, msg.EditBadge.Metadata)
	case msg.AddKeys != nil:
		return h.AddKeys(s, env, info, msg.AddKeys.ID, msg.AddKeys.Keys)
	case msg.PurgeKeys != nil:
		return h.PurgeKeys(s, env, msg.PurgeKeys.ID, msg.PurgeKeys.Limit)
	case msg.PurgeOwners != nil:
		return h.PurgeOwners(s, env, msg.PurgeOwners.ID, msg.PurgeOwners.Limit)
	case msg.MintByMinter != nil:
		owners := make([]badge.Addr, 0, msg.MintByMinter.Owners.Len())
		for _, owner := range msg.MintByMinter.Owners.Items() {
			addr, err := h.api.AddrValidate(owner)
			if err != nil {
				return response.Response{}, err
			}
			owners = append(owners, addr)
		}
		return h.MintByMinter(s, env, info, msg.MintByMinter.ID, owners)
	case msg.MintByKey != nil:
		owner, err := h.api.AddrValidate(msg.MintByKey.Owner)
		if err != nil {
			return response.Response{}, err
		}
		return h.MintByKey(
			s,
			env,
			msg.MintByKey.ID,
			owner,
			msg.MintByKey.Signature,
		)
	case msg.MintByKeys != nil:
		owner, err := h.api.AddrValidate(msg.MintByKeys.Owner)
		if err != nil {
			return response.Response{}, err
		}
		return h.MintByKeys(
			s,
			env,
			msg.MintByKeys.ID,
			owner,
			msg.MintByKeys.Pubkey,
			msg.MintByKeys.Signature,
		)
	case msg.SetNft != nil:
		nft, err := h.api.AddrValidate(msg.SetNft.Nft)
		if err != nil {
			return response.Response{}, err
		}
		return h.SetNft(s, info, nft)
	}
	return response.Response{}, ErrInvalidMsg
}

func (h *Hub) badgeFromMsg(msg *CreateBadgeMsg) (badge.Badge, error) {
	var ret badge.Badge
	manager, err := h.api.AddrValidate(msg.Manager)
	if err != nil {
		return ret, err
	}
	rule, err := h.ruleFromMsg(msg.Rule)
	if err != nil {
		return ret, err
	}
	ret = badge.Badge{
		Manager:       manager,
		Metadata:      msg.Metadata,
		Transferrable: msg.Transferrable,
		Rule:          rule,
		Expiry:        badge.Never(),
		MaxSupply:     msg.MaxSupply,
	}
	if msg.Expiry != nil {
		ret.Expiry = *msg.Expiry
	}
	return ret, nil
}

func (h *Hub) ruleFromMsg(msg MintRuleMsg) (badge.MintRule, error) {
	switch {
	case msg.ByMinter != nil:
		minter, err := h.api.AddrValidate(*msg.ByMinter)
		if err != nil {
			return nil, err
		}
		return badge.ByMinter{Minter: minter}, nil
	case msg.ByKey != nil:
		return badge.ByKey{Pubkey: *msg.ByKey}, nil
	case msg.ByKeys:
		return badge.ByKeys{}, nil
	}
	return nil, fmt.Errorf("%w: missing mint rule", ErrInvalidMsg)
}

// Query answers a read-only query. The result is one of the *Response types
// of this package.
func (h *Hub) Query(
	ctx context.Context,
	s state.Store,
	msg QueryMsg,
) (any, error) {
	_, span := h.tracer.Start(ctx, "hub.query")
	defer span.End()
	ret, err := h.query(s, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return ret, err
}

func (h *Hub) query(s state.Store, msg QueryMsg) (any, error) {
	kind, err := msg.Kind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case "config":
		return h.QueryConfig(s)
	case "badge":
		return h.QueryBadge(s, msg.Badge.ID)
	case "badges":
		return h.QueryBadges(s, msg.Badges.StartAfter, msg.Badges.Limit)
	case "key":
		return h.QueryKey(s, msg.Key.ID, msg.Key.Pubkey)
	case "keys":
		return h.QueryKeys(s, msg.Keys.ID, msg.Keys.StartAfter, msg.Keys.Limit)
	case "owner":
		return h.QueryOwner(s, msg.Owner.ID, msg.Owner.Owner)
	default:
		return h.QueryOwners(
			s,
			msg.Owners.ID,
			msg.Owners.StartAfter,
			msg.Owners.Limit,
		)
	}
}
