package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	profiledomain "github.com/vendora/vendora/internal/profile/domain"
)

//go:embed model.conf
var modelText string

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, accountType string, object string, action string) error {
	accountType = strings.TrimSpace(accountType)
	if accountType == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := fmt.Sprintf("role:%s", accountType)
	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("account_type", accountType),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	adminSubject := fmt.Sprintf("role:%s", profiledomain.AccountTypeAdmin)
	superSubject := fmt.Sprintf("role:%s", profiledomain.AccountTypeSuperCustomer)
	customerSubject := fmt.Sprintf("role:%s", profiledomain.AccountTypeCustomer)

	policies := [][]string{}
	for _, object := range []string{
		ObjectProfile,
		ObjectOrganization,
		ObjectMachine,
		ObjectProduct,
		ObjectInvoice,
		ObjectPayment,
	} {
		for _, action := range []string{ActionView, ActionCreate, ActionUpdate, ActionDelete} {
			policies = append(policies, []string{adminSubject, object, action})
		}
	}
	policies = append(policies,
		[]string{adminSubject, ObjectInvoice, ActionSend},
		[]string{adminSubject, ObjectPayment, ActionRecord},
		[]string{adminSubject, ObjectDashboard, ActionView},

		[]string{superSubject, ObjectOrganization, ActionView},
		[]string{superSubject, ObjectOrganization, ActionUpdate},
		[]string{superSubject, ObjectInvoice, ActionView},
		[]string{superSubject, ObjectPayment, ActionView},
		[]string{superSubject, ObjectMachine, ActionView},

		[]string{customerSubject, ObjectMachine, ActionView},
		[]string{customerSubject, ObjectInvoice, ActionView},
		[]string{customerSubject, ObjectPayment, ActionView},
		[]string{customerSubject, ObjectProduct, ActionView},
	)

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
