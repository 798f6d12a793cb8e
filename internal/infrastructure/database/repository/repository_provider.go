package repository

import (
	"github.com/google/wire"

	"github.com/daosail/daosail-server/internal/infrastructure/database/repository/chatrepo"
	"github.com/daosail/daosail-server/internal/infrastructure/database/repository/guestrepo"
	"github.com/daosail/daosail-server/internal/infrastructure/database/repository/knowledgerepo"
	"github.com/daosail/daosail-server/internal/infrastructure/database/repository/profilerepo"
	"github.com/daosail/daosail-server/internal/infrastructure/database/repository/userrepo"
)

var RepositoryProvider = wire.NewSet(
	userrepo.NewUserGormRepository,
	profilerepo.NewProfileGormRepository,
	profilerepo.NewAchievementGormRepository,
	chatrepo.NewSessionGormRepository,
	chatrepo.NewMessageGormRepository,
	guestrepo.NewGuestGormRepository,
	guestrepo.NewLeadGormRepository,
	knowledgerepo.NewKnowledgeGormRepository,
)
