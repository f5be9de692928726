package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

var allowedPatchOps = map[string]struct{}{
	"add":     {},
	"replace": {},
	"remove":  {},
	"test":    {},
}

// editableFields are the only top-level members a patch may address. Names
// must match the Account JSON tags exactly, since encoding/json would
// otherwise fold "/PasswordHash" onto passwordHash.
var editableFields = map[string]struct{}{
	"name":        {},
	"username":    {},
	"email":       {},
	"dateOfBirth": {},
}

// protectedFields are lower-cased. Password changes have no hashing path
// here, and the rest is owned by the server.
var protectedFields = map[string]struct{}{
	"id":            {},
	"password":      {},
	"passwordhash":  {},
	"emailverified": {},
	"createdat":     {},
}

// decodePatch parses an RFC 6902 document and rejects operations or paths
// that UpdateUser does not support.
func decodePatch(doc []byte) (jsonpatch.Patch, error) {
	patch, err := jsonpatch.DecodePatch(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed patch: %v", common.ErrValidation, err)
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: empty patch", common.ErrValidation)
	}

	for i, op := range patch {
		kind := op.Kind()
		if _, ok := allowedPatchOps[kind]; !ok {
			return nil, fmt.Errorf("%w: operation %d: %q is not supported", common.ErrValidation, i, kind)
		}
		path, err := op.Path()
		if err != nil {
			return nil, fmt.Errorf("%w: operation %d: %v", common.ErrValidation, i, err)
		}
		if err := checkField(topLevelField(path)); err != nil {
			return nil, fmt.Errorf("%w: operation %d: %v", common.ErrValidation, i, err)
		}
	}

	return patch, nil
}

func topLevelField(pointer string) string {
	field, _, _ := strings.Cut(strings.TrimPrefix(pointer, "/"), "/")
	// RFC 6901 escapes
	field = strings.ReplaceAll(field, "~1", "/")
	return strings.ReplaceAll(field, "~0", "~")
}

func checkField(field string) error {
	if field == "" {
		return errors.New("the whole document cannot be replaced")
	}
	if _, ok := editableFields[field]; ok {
		return nil
	}
	if _, ok := protectedFields[strings.ToLower(field)]; ok {
		return fmt.Errorf("field %q cannot be changed", field)
	}
	return fmt.Errorf("unknown field %q", field)
}

// applyPatch returns a copy of a with patch applied. Server-owned fields are
// copied back from a regardless of the patch result. A changed email is no
// longer verified.
func applyPatch(a *models.Account, patch jsonpatch.Patch) (*models.Account, error) {
	doc, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}

	patched, err := patch.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	out := &models.Account{}
	if err := json.Unmarshal(patched, out); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	out.ID = a.ID
	out.PasswordHash = a.PasswordHash
	out.EmailVerified = a.EmailVerified && out.Email == a.Email
	out.CreatedAt = a.CreatedAt
	return out, nil
}
