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

package badges

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/database"
	"github.com/public-awesome/badges/database/models"
	"github.com/public-awesome/badges/database/types"
	"github.com/public-awesome/badges/event"
	"github.com/public-awesome/badges/hub"
	"github.com/public-awesome/badges/response"
	"github.com/public-awesome/badges/state"
)

type operationFunc func(s state.Store, env hub.Env) (response.Response, error)

// Instantiate initializes the registry with sender as the developer. When
// the node is configured with an NFT address, the deployment of the NFT
// sub-ledger is reported in the same block.
func (n *Node) Instantiate(
	ctx context.Context,
	sender string,
	msg hub.InstantiateMsg,
) (event.OperationEvent, error) {
	senderAddr, err := n.hub.API().AddrValidate(sender)
	if err != nil {
		return event.OperationEvent{}, fmt.Errorf("invalid sender: %w", err)
	}
	info := hub.MessageInfo{Sender: senderAddr}
	return n.apply(
		"init",
		senderAddr,
		func(s state.Store, env hub.Env) (response.Response, error) {
			res, err := n.hub.Instantiate(ctx, s, env, info, msg)
			if err != nil || n.config.nftAddr == "" {
				return res, err
			}
			for _, m := range res.Messages {
				deploy, ok := m.(response.InstantiateNft)
				if !ok {
					continue
				}
				replyRes, err := n.hub.Reply(ctx, s, hub.ReplyMsg{
					ID:              deploy.ReplyID,
					ContractAddress: n.config.nftAddr,
				})
				if err != nil {
					return res, err
				}
				res.Merge(replyRes)
			}
			return res, nil
		},
	)
}

// Reply reports the address of the deployed NFT sub-ledger
func (n *Node) Reply(
	ctx context.Context,
	msg hub.ReplyMsg,
) (event.OperationEvent, error) {
	return n.apply(
		"init_hook",
		n.contract,
		func(s state.Store, _ hub.Env) (response.Response, error) {
			return n.hub.Reply(ctx, s, msg)
		},
	)
}

// Sudo runs a privileged operation on behalf of the host
func (n *Node) Sudo(
	ctx context.Context,
	msg hub.SudoMsg,
) (event.OperationEvent, error) {
	return n.apply(
		"set_fee_rate",
		n.contract,
		func(s state.Store, _ hub.Env) (response.Response, error) {
			return n.hub.Sudo(ctx, s, msg)
		},
	)
}

// Migrate upgrades registry state written by an earlier version
func (n *Node) Migrate(ctx context.Context) (event.OperationEvent, error) {
	return n.apply(
		"migrate",
		n.contract,
		func(s state.Store, _ hub.Env) (response.Response, error) {
			return n.hub.Migrate(ctx, s)
		},
	)
}

// Execute runs a registry operation submitted by sender with funds attached
func (n *Node) Execute(
	ctx context.Context,
	sender string,
	funds []response.Coin,
	msg hub.ExecuteMsg,
) (event.OperationEvent, error) {
	name, err := msg.Action()
	if err != nil {
		return event.OperationEvent{}, err
	}
	senderAddr, err := n.hub.API().AddrValidate(sender)
	if err != nil {
		return event.OperationEvent{}, fmt.Errorf("invalid sender: %w", err)
	}
	info := hub.MessageInfo{Sender: senderAddr, Funds: funds}
	return n.apply(
		name,
		senderAddr,
		func(s state.Store, env hub.Env) (response.Response, error) {
			return n.hub.Execute(ctx, s, env, info, msg)
		},
	)
}

// Query answers a read-only registry query against the last committed block
func (n *Node) Query(ctx context.Context, msg hub.QueryMsg) (any, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.db == nil {
		return nil, ErrNotOpen
	}
	txn := database.NewBlobOnlyTxn(n.db, false)
	defer txn.Release()
	return n.hub.Query(ctx, txn, msg)
}

// Height returns the height of the last committed block
func (n *Node) Height(context.Context) (uint64, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.db == nil {
		return 0, ErrNotOpen
	}
	txn := database.NewBlobOnlyTxn(n.db, false)
	defer txn.Release()
	height, _, err := n.height.MayLoad(txn)
	return height, err
}

// Token returns the journaled mint of a token, or nil if it was never minted
func (n *Node) Token(_ context.Context, tokenID string) (*models.Mint, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.db == nil {
		return nil, ErrNotOpen
	}
	return n.db.Metadata().GetMint(tokenID, nil)
}

func (n *Node) TokensByBadge(
	_ context.Context,
	badgeID uint64,
	after uint,
	limit int,
) ([]models.Mint, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.db == nil {
		return nil, ErrNotOpen
	}
	return n.db.Metadata().GetMintsByBadge(badgeID, after, limit, nil)
}

func (n *Node) TokensByOwner(
	_ context.Context,
	owner string,
	after uint,
	limit int,
) ([]models.Mint, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.db == nil {
		return nil, ErrNotOpen
	}
	return n.db.Metadata().GetMintsByOwner(owner, after, limit, nil)
}

// Operations returns the most recent journaled operations, newest first,
// optionally restricted to one badge
func (n *Node) Operations(
	_ context.Context,
	badgeID *uint64,
	limit int,
) ([]models.Operation, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.db == nil {
		return nil, ErrNotOpen
	}
	return n.db.Metadata().GetOperations(badgeID, limit, nil)
}

// apply runs fn in a new block. The block, the state changes of fn and the
// journal entry are committed together, or not at all.
func (n *Node) apply(
	name string,
	sender badge.Addr,
	fn operationFunc,
) (event.OperationEvent, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.db == nil {
		return event.OperationEvent{}, ErrNotOpen
	}
	var evt event.OperationEvent
	txn := n.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		env, err := n.nextBlock(txn)
		if err != nil {
			return err
		}
		res, err := fn(txn, env)
		if err != nil {
			return err
		}
		evt = event.OperationEvent{
			Action:   name,
			Sender:   sender.String(),
			Height:   env.Block.Height,
			Time:     env.Block.Time,
			Response: res,
		}
		op, err := journalEntry(evt)
		if err != nil {
			return err
		}
		return txn.RecordOperation(op)
	})
	n.hub.Observe(name, &evt.Response, err)
	if err != nil {
		n.config.logger.Debug(
			"operation rejected",
			"action", name,
			"sender", sender.String(),
			"error", err,
		)
		return event.OperationEvent{}, err
	}
	n.config.logger.Info(
		"operation committed",
		"action", name,
		"sender", sender.String(),
		"height", evt.Height,
	)
	n.publish(evt)
	return evt, nil
}

func (n *Node) nextBlock(s state.Store) (hub.Env, error) {
	height, _, err := n.height.MayLoad(s)
	if err != nil {
		return hub.Env{}, err
	}
	height++
	if err := n.height.Save(s, height); err != nil {
		return hub.Env{}, err
	}
	blockTime := n.config.clock().Unix()
	if blockTime < 0 {
		blockTime = 0
	}
	return hub.Env{
		Block: badge.BlockInfo{
			Height:  height,
			Time:    uint64(blockTime),
			ChainID: n.config.chainID,
		},
		Contract: n.contract,
	}, nil
}

func (n *Node) publish(evt event.OperationEvent) {
	n.eventBus.Publish(
		event.OperationEventType,
		event.NewEvent(event.OperationEventType, evt),
	)
	for _, mint := range evt.Response.Mints() {
		// Token IDs were checked when the journal entry was built
		badgeID, serial, _ := badge.ParseTokenID(mint.TokenID)
		n.eventBus.Publish(
			event.MintEventType,
			event.NewEvent(event.MintEventType, event.MintEvent{
				BadgeID: badgeID,
				Serial:  serial,
				TokenID: mint.TokenID,
				Owner:   mint.Owner.String(),
				Height:  evt.Height,
			}),
		)
	}
}

func journalEntry(evt event.OperationEvent) (*models.Operation, error) {
	attrs, err := json.Marshal(evt.Response.Attributes)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}
	op := &models.Operation{
		Action:     evt.Action,
		Sender:     evt.Sender,
		Height:     types.Uint64(evt.Height),
		Time:       types.Uint64(evt.Time),
		Attributes: attrs,
	}
	if val, ok := evt.Response.Attribute("id"); ok {
		id, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse badge id %q: %w", val, err)
		}
		op.BadgeID = types.Uint64(id)
	}
	for _, mint := range evt.Response.Mints() {
		badgeID, serial, err := badge.ParseTokenID(mint.TokenID)
		if err != nil {
			return nil, err
		}
		op.Mints = append(op.Mints, models.Mint{
			TokenID:  mint.TokenID,
			Owner:    mint.Owner.String(),
			BadgeID:  types.Uint64(badgeID),
			Serial:   types.Uint64(serial),
			Contract: mint.Contract.String(),
		})
	}
	op.FeePayment = feePayment(evt.Sender, evt.Response.Messages)
	return op, nil
}

// feePayment totals the fee distribution instructions of a response. It
// returns nil if the operation paid no fee.
func feePayment(payer string, msgs []response.Msg) *models.FeePayment {
	var ret models.FeePayment
	found := false
	add := func(coins []response.Coin, dest *types.Uint64) {
		for _, coin := range coins {
			found = true
			ret.Denom = coin.Denom
			*dest += types.Uint64(coin.Amount)
			ret.Amount += types.Uint64(coin.Amount)
		}
	}
	for _, m := range msgs {
		switch msg := m.(type) {
		case response.BankSend:
			add(msg.Amount, &ret.DeveloperAmount)
		case response.BankBurn:
			add(msg.Amount, &ret.BurnAmount)
		case response.FundCommunityPool:
			add(msg.Amount, &ret.PoolAmount)
		}
	}
	if !found {
		return nil
	}
	ret.Payer = payer
	return &ret
}
