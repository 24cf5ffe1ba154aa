// Project Structure Overview
/*
clipcoin-backend/
├── cmd/
│   └── server/
│       └── main.go
├── internal/
│   ├── config/
│   │   ├── config.go
│   │   └── database.go
│   ├── models/
│   │   ├── common.go
│   │   ├── user.go
│   │   ├── video.go
│   │   └── transaction.go
│   ├── handlers/
│   │   ├── auth.go
│   │   ├── user.go
│   │   ├── video.go
│   │   ├── transaction.go
│   │   └── payment.go
│   ├── services/
│   │   ├── errors.go
│   │   ├── pricing.go
│   │   ├── ledger_service.go
│   │   ├── user_service.go
│   │   ├── video_service.go
│   │   ├── payment_service.go
│   │   └── storage_service.go
│   ├── middleware/
│   │   ├── auth.go
│   │   ├── cors.go
│   │   ├── i18n.go
│   │   ├── logging.go
│   │   └── rate_limit.go
│   ├── database/
│   │   └── connection.go
│   ├── router/
│   │   └── router.go
│   ├── i18n/
│   │   ├── i18n.go
│   │   ├── keys.go
│   │   └── locales/
│   └── utils/
│       ├── response.go
│       ├── validator.go
│       ├── pagination.go
│       ├── crypto.go
│       └── jwt.go
└── go.mod
*/

package clipcoin

// This file shows the project structure and main entry point
// The actual implementation is in cmd/server and internal packages
