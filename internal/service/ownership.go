package service

import (
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/apperrors"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"
)

// authorizeOwner gates every mutation of an existing item. Existence and
// purpose are checked earlier by the store lookup (404); this only decides
// whether the acting NGO owns the item (403).
func authorizeOwner(ngoID uint, item *models.Item) error {
	if item.NgoID != ngoID {
		return apperrors.NewForbidden("você não tem permissão para alterar este item")
	}
	return nil
}
