package services

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// authorize validates accessToken and requires it to belong to target.
func (s *AccountService) authorize(accessToken, target string) error {
	if accessToken == "" || target == "" {
		return common.ErrInvalidRequest
	}
	claims, err := s.issuer.Validate(accessToken)
	if err != nil || claims.UserName == "" {
		return common.ErrInvalidToken
	}
	if claims.UserName != target {
		return common.ErrForbidden
	}
	return nil
}

// GetUser returns the caller's own account. The record includes the password
// hash; transports must redact it.
func (s *AccountService) GetUser(ctx context.Context, accessToken, userName string) (*models.Account, error) {
	if err := s.authorize(accessToken, userName); err != nil {
		return nil, err
	}

	account, err := s.repomanager.Accounts(s.db).GetByUserName(ctx, userName)
	if err != nil {
		return nil, s.fail(ctx, "get user", err)
	}
	return account, nil
}

// DeleteUser removes the caller's account together with all its sessions.
func (s *AccountService) DeleteUser(ctx context.Context, accessToken, userName string) error {
	if err := s.authorize(accessToken, userName); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Sessions(tx).DeleteByUserName(ctx, userName); err != nil {
			return err
		}
		return s.repomanager.Accounts(tx).DeleteByUserName(ctx, userName)
	})
	if err != nil {
		return s.fail(ctx, "delete user", err)
	}

	s.logger.Info(ctx, "account deleted", "username", userName)
	return nil
}

// UpdateUser applies an RFC 6902 patch to the caller's account and stores the
// result. Patches touching server-owned or credential fields are refused.
// A username change carries the sessions along but invalidates outstanding
// access tokens for the old name.
func (s *AccountService) UpdateUser(ctx context.Context, accessToken, userName string, patchDoc []byte) (*models.Account, error) {
	if err := s.authorize(accessToken, userName); err != nil {
		return nil, err
	}

	patch, err := decodePatch(patchDoc)
	if err != nil {
		return nil, err
	}

	var updated *models.Account
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		accounts := s.repomanager.Accounts(tx)

		current, err := accounts.GetByUserName(ctx, userName)
		if err != nil {
			return err
		}

		next, err := applyPatch(current, patch)
		if err != nil {
			return err
		}
		if err := validateAccount(next, s.now()); err != nil {
			return err
		}

		if err := accounts.Replace(ctx, userName, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "update user", err)
	}

	s.logger.Info(ctx, "account updated", "username", userName)
	return updated, nil
}
