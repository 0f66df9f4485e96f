package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/juju/clock"
	"golang.org/x/crypto/bcrypt"

	"github.com/conn-castle/mage-console/internal/database"
	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/validate"
)

// DefaultLastname is used when the operator gives no last name.
const DefaultLastname = "Administrator"

// ErrRoleMissing is returned when binding an administrator before the
// Administrators role exists.
var ErrRoleMissing = errors.New("administrators role does not exist")

// User is a row of admin_user, without the password hash.
type User struct {
	ID        int64
	Firstname string
	Lastname  string
	Email     string
	Username  string
	IsActive  bool
}

// Provisioner creates administrator accounts and binds them to the
// Administrators role.
type Provisioner struct {
	DB        *database.DB
	Validator validate.Validator
	Clock     clock.Clock
	// HashCost is the bcrypt cost; zero selects bcrypt.DefaultCost.
	HashCost int
}

// NewProvisioner returns a Provisioner with the stock validator and wall clock
// when those are nil.
func NewProvisioner(db *database.DB, validator validate.Validator, clk clock.Clock) *Provisioner {
	if validator == nil {
		validator = validate.Default{}
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &Provisioner{DB: db, Validator: validator, Clock: clk}
}

// Validate returns every identity problem joined into one error, or nil.
func (p *Provisioner) Validate(id validate.Identity) error {
	return errors.Join(p.Validator.Administrator(id)...)
}

// Create stores the administrator account with a bcrypt password hash.
// An existing account with the same username is updated in place so a
// rerun after a failed install converges.
func (p *Provisioner) Create(ctx context.Context, id validate.Identity) (User, error) {
	cost := p.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(id.Password), cost)
	if err != nil {
		return User{}, fmt.Errorf(messages.AccessHashPasswordFmt, err)
	}
	firstname := id.Firstname
	if firstname == "" {
		firstname = id.Username
	}
	lastname := id.Lastname
	if lastname == "" {
		lastname = DefaultLastname
	}
	now := p.Clock.Now().UTC().Format(time.DateTime)

	var user User
	err = p.DB.InTx(ctx, func(tx *sql.Tx) error {
		_, found, err := FindUser(ctx, p.DB, tx, id.Username)
		if err != nil {
			return err
		}
		if found {
			query := fmt.Sprintf(`UPDATE %s SET firstname = ?, lastname = ?, email = ?, password = ?, modified = ?, is_active = 1
WHERE username = ?`, p.DB.Table("admin_user"))
			if _, err := tx.ExecContext(ctx, query, firstname, lastname, id.Email, string(hash), now, id.Username); err != nil {
				return fmt.Errorf(messages.AccessCreateUserFmt, id.Username, err)
			}
		} else {
			query := fmt.Sprintf(`INSERT INTO %s (firstname, lastname, email, username, password, created, modified, is_active)
VALUES (?, ?, ?, ?, ?, ?, ?, 1)`, p.DB.Table("admin_user"))
			if _, err := tx.ExecContext(ctx, query, firstname, lastname, id.Email, id.Username, string(hash), now, now); err != nil {
				return fmt.Errorf(messages.AccessCreateUserFmt, id.Username, err)
			}
		}
		user, found, err = FindUser(ctx, p.DB, tx, id.Username)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf(messages.AccessUserVanishedFmt, id.Username)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// BindAdministratorsRole replaces the role bindings of user with a single
// child row under the Administrators role.
func (p *Provisioner) BindAdministratorsRole(ctx context.Context, user User) error {
	return p.DB.InTx(ctx, func(tx *sql.Tx) error {
		role, found, err := FindAdministratorsRole(ctx, p.DB, tx)
		if err != nil {
			return err
		}
		if !found {
			return ErrRoleMissing
		}
		table := p.DB.Table("admin_role")
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE user_id = ? AND role_type = ?`, table), user.ID, RoleTypeUser); err != nil {
			return fmt.Errorf(messages.AccessBindRoleFmt, user.Username, err)
		}
		query := fmt.Sprintf(`INSERT INTO %s (parent_id, tree_level, sort_order, role_type, user_id, role_name)
VALUES (?, 2, 0, ?, ?, ?)`, table)
		if _, err := tx.ExecContext(ctx, query, role.ID, RoleTypeUser, user.ID, user.Username); err != nil {
			return fmt.Errorf(messages.AccessBindRoleFmt, user.Username, err)
		}
		return nil
	})
}

// FindUser looks an administrator up by username.
func FindUser(ctx context.Context, db *database.DB, q database.Querier, username string) (User, bool, error) {
	query := fmt.Sprintf(`SELECT user_id, firstname, lastname, email, username, is_active
FROM %s WHERE username = ?`, db.Table("admin_user"))
	var (
		user   User
		active int
	)
	err := q.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Firstname, &user.Lastname, &user.Email, &user.Username, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf(messages.AccessLookupUserFmt, username, err)
	}
	user.IsActive = active == 1
	return user, true, nil
}

// PasswordMatches reports whether password matches the stored hash of username.
func PasswordMatches(ctx context.Context, db *database.DB, q database.Querier, username string, password string) (bool, error) {
	var hash string
	query := fmt.Sprintf(`SELECT password FROM %s WHERE username = ?`, db.Table("admin_user"))
	err := q.QueryRowContext(ctx, query, username).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf(messages.AccessLookupUserFmt, username, err)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}

// BoundAdministrators lists the usernames bound to the Administrators role.
func BoundAdministrators(ctx context.Context, db *database.DB, q database.Querier) ([]string, error) {
	query := fmt.Sprintf(`SELECT child.role_name FROM %[1]s child
JOIN %[1]s parent ON parent.role_id = child.parent_id
WHERE child.role_type = ? AND parent.role_type = ? AND parent.role_name = ?
ORDER BY child.role_id`, db.Table("admin_role"))
	rows, err := q.QueryContext(ctx, query, RoleTypeUser, RoleTypeGroup, AdministratorsRoleName)
	if err != nil {
		return nil, fmt.Errorf(messages.AccessLookupRoleFmt, err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf(messages.AccessLookupRoleFmt, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(messages.AccessLookupRoleFmt, err)
	}
	return names, nil
}
