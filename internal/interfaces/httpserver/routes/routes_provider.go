package routes

import (
	"github.com/google/wire"

	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/assistanthandler"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/faqhandler"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/guesthandler"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/knowledgehandler"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/profilehandler"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/sessionhandler"
	v1 "github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/assistantroute"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/chat"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/faq"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/guestroute"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/knowledgeroute"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/profile"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/session"
)

var RouteProvider = wire.NewSet(
	// Handlers
	chathandler.NewChatHandler,
	sessionhandler.NewSessionHandler,
	profilehandler.NewProfileHandler,
	guesthandler.NewGuestHandler,
	knowledgehandler.NewKnowledgeHandler,
	assistanthandler.NewAssistantHandler,
	faqhandler.NewFAQHandler,

	// Routes
	v1.NewV1Route,
	chat.NewChatRoute,
	session.NewSessionRoute,
	profile.NewProfileRoute,
	guestroute.NewGuestRoute,
	knowledgeroute.NewKnowledgeRoute,
	assistantroute.NewAssistantRoute,
	faq.NewFAQRoute,
)
