package application

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
)

// In-memory repositories that mirror the store's single-document
// semantics: partial $set patches, immutable-field dropping, and
// (nil, nil) misses.

func setUpdatedAt(fields bson.M) *time.Time {
	if v, ok := fields["updatedAt"]; ok {
		if t, ok := v.(time.Time); ok {
			return &t
		}
	}
	return nil
}

type fakeBoardRepo struct {
	boards    map[primitive.ObjectID]*entity.Board
	columns   *fakeColumnRepo
	cards     *fakeCardRepo
	users     map[primitive.ObjectID]*entity.User
	updateErr map[primitive.ObjectID]error
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{
		boards:    map[primitive.ObjectID]*entity.Board{},
		users:     map[primitive.ObjectID]*entity.User{},
		updateErr: map[primitive.ObjectID]error{},
	}
}

func (r *fakeBoardRepo) Create(_ context.Context, b *entity.Board) (primitive.ObjectID, error) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	b.CreatedAt = time.Now().UTC()
	cp := *b
	r.boards[b.ID] = &cp
	return b.ID, nil
}

func (r *fakeBoardRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Board, error) {
	b, ok := r.boards[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBoardRepo) GetDetails(_ context.Context, userID, boardID primitive.ObjectID) (*entity.BoardDetails, error) {
	b, ok := r.boards[boardID]
	if !ok || b.Destroy || !b.HasParticipant(userID) {
		return nil, nil
	}
	d := &entity.BoardDetails{Board: *b}
	if r.columns != nil {
		for _, col := range r.columns.columns {
			if col.BoardID == boardID && !col.Destroy {
				d.Columns = append(d.Columns, *col)
			}
		}
	}
	if r.cards != nil {
		for _, card := range r.cards.cards {
			if card.BoardID == boardID && !card.Destroy {
				d.Cards = append(d.Cards, *card)
			}
		}
	}
	for _, id := range b.OwnerIds {
		if u, ok := r.users[id]; ok {
			d.Owners = append(d.Owners, u.Summary())
		}
	}
	for _, id := range b.MemberIds {
		if u, ok := r.users[id]; ok {
			d.Members = append(d.Members, u.Summary())
		}
	}
	return d, nil
}

func (r *fakeBoardRepo) List(_ context.Context, userID primitive.ObjectID, page, pageSize int64, _ map[string]string) (*entity.BoardPage, error) {
	var all []entity.Board
	for _, b := range r.boards {
		if !b.Destroy && b.HasParticipant(userID) {
			all = append(all, *b)
		}
	}
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return &entity.BoardPage{Boards: all[start:end], TotalBoards: total}, nil
}

func (r *fakeBoardRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*entity.Board, error) {
	if err := r.updateErr[id]; err != nil {
		return nil, err
	}
	b, ok := r.boards[id]
	if !ok {
		return nil, nil
	}
	for k, v := range fields {
		switch k {
		case "title":
			b.Title = v.(string)
		case "slug":
			b.Slug = v.(string)
		case "description":
			b.Description = v.(string)
		case "type":
			b.Type = v.(string)
		case "columnOrderIds":
			b.ColumnOrderIds = v.([]primitive.ObjectID)
		}
	}
	if t := setUpdatedAt(fields); t != nil {
		b.UpdatedAt = t
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBoardRepo) PushColumnOrderID(_ context.Context, boardID, columnID primitive.ObjectID) error {
	b, ok := r.boards[boardID]
	if !ok {
		return errors.New("board missing")
	}
	b.ColumnOrderIds = append(b.ColumnOrderIds, columnID)
	return nil
}

func (r *fakeBoardRepo) PullColumnOrderID(_ context.Context, boardID, columnID primitive.ObjectID) error {
	b, ok := r.boards[boardID]
	if !ok {
		return errors.New("board missing")
	}
	out := b.ColumnOrderIds[:0]
	for _, id := range b.ColumnOrderIds {
		if id != columnID {
			out = append(out, id)
		}
	}
	b.ColumnOrderIds = out
	return nil
}

func (r *fakeBoardRepo) PushMemberID(_ context.Context, boardID, userID primitive.ObjectID) error {
	b, ok := r.boards[boardID]
	if !ok {
		return errors.New("board missing")
	}
	b.MemberIds = append(b.MemberIds, userID)
	return nil
}

type fakeColumnRepo struct {
	columns   map[primitive.ObjectID]*entity.Column
	order     []primitive.ObjectID
	updateErr map[primitive.ObjectID]error
}

func newFakeColumnRepo() *fakeColumnRepo {
	return &fakeColumnRepo{
		columns:   map[primitive.ObjectID]*entity.Column{},
		updateErr: map[primitive.ObjectID]error{},
	}
}

func (r *fakeColumnRepo) Create(_ context.Context, c *entity.Column) (primitive.ObjectID, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.CreatedAt = time.Now().UTC()
	cp := *c
	r.columns[c.ID] = &cp
	r.order = append(r.order, c.ID)
	return c.ID, nil
}

func (r *fakeColumnRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Column, error) {
	c, ok := r.columns[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeColumnRepo) FindLiveByBoardID(_ context.Context, boardID primitive.ObjectID) ([]entity.Column, error) {
	var out []entity.Column
	for _, id := range r.order {
		c := r.columns[id]
		if c != nil && c.BoardID == boardID && !c.Destroy {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeColumnRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*entity.Column, error) {
	if err := r.updateErr[id]; err != nil {
		return nil, err
	}
	c, ok := r.columns[id]
	if !ok {
		return nil, nil
	}
	for k, v := range fields {
		switch k {
		case "title":
			c.Title = v.(string)
		case "cardOrderIds":
			c.CardOrderIds = v.([]primitive.ObjectID)
		}
	}
	if t := setUpdatedAt(fields); t != nil {
		c.UpdatedAt = t
	}
	cp := *c
	return &cp, nil
}

func (r *fakeColumnRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.columns[id]; !ok {
		return errors.New("column missing")
	}
	delete(r.columns, id)
	return nil
}

func (r *fakeColumnRepo) PushCardOrderID(_ context.Context, columnID, cardID primitive.ObjectID) error {
	c, ok := r.columns[columnID]
	if !ok {
		return errors.New("column missing")
	}
	c.CardOrderIds = append(c.CardOrderIds, cardID)
	return nil
}

func (r *fakeColumnRepo) PullCardOrderID(_ context.Context, columnID, cardID primitive.ObjectID) error {
	c, ok := r.columns[columnID]
	if !ok {
		return errors.New("column missing")
	}
	out := c.CardOrderIds[:0]
	for _, id := range c.CardOrderIds {
		if id != cardID {
			out = append(out, id)
		}
	}
	c.CardOrderIds = out
	return nil
}

type fakeCardRepo struct {
	cards     map[primitive.ObjectID]*entity.Card
	order     []primitive.ObjectID
	updateErr map[primitive.ObjectID]error
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{
		cards:     map[primitive.ObjectID]*entity.Card{},
		updateErr: map[primitive.ObjectID]error{},
	}
}

func (r *fakeCardRepo) Create(_ context.Context, c *entity.Card) (primitive.ObjectID, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.CreatedAt = time.Now().UTC()
	cp := *c
	r.cards[c.ID] = &cp
	r.order = append(r.order, c.ID)
	return c.ID, nil
}

func (r *fakeCardRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Card, error) {
	c, ok := r.cards[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCardRepo) FindLiveByColumnID(_ context.Context, columnID primitive.ObjectID) ([]entity.Card, error) {
	var out []entity.Card
	for _, id := range r.order {
		c := r.cards[id]
		if c != nil && c.ColumnID == columnID && !c.Destroy {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*entity.Card, error) {
	if err := r.updateErr[id]; err != nil {
		return nil, err
	}
	c, ok := r.cards[id]
	if !ok {
		return nil, nil
	}
	for k, v := range fields {
		switch k {
		case "title":
			c.Title = v.(string)
		case "description":
			c.Description = v.(string)
		case "cover":
			c.Cover = v.(string)
		case "columnId":
			c.ColumnID = v.(primitive.ObjectID)
		}
	}
	if t := setUpdatedAt(fields); t != nil {
		c.UpdatedAt = t
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCardRepo) DeleteByColumnID(_ context.Context, columnID primitive.ObjectID) (int64, error) {
	var n int64
	for id, c := range r.cards {
		if c.ColumnID == columnID {
			delete(r.cards, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeCardRepo) UnshiftComment(_ context.Context, cardID primitive.ObjectID, comment entity.Comment) (*entity.Card, error) {
	c, ok := r.cards[cardID]
	if !ok {
		return nil, nil
	}
	c.Comments = append([]entity.Comment{comment}, c.Comments...)
	cp := *c
	return &cp, nil
}

func (r *fakeCardRepo) UpdateMembers(_ context.Context, cardID primitive.ObjectID, action string, userID primitive.ObjectID) (*entity.Card, error) {
	c, ok := r.cards[cardID]
	if !ok {
		return nil, nil
	}
	switch action {
	case entity.CardMemberActionAdd:
		c.MemberIds = append(c.MemberIds, userID)
	case entity.CardMemberActionRemove:
		out := c.MemberIds[:0]
		for _, id := range c.MemberIds {
			if id != userID {
				out = append(out, id)
			}
		}
		c.MemberIds = out
	default:
		return nil, errors.New("unknown member action")
	}
	cp := *c
	return &cp, nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) (primitive.ObjectID, error) {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = time.Now().UTC()
	if u.Role == "" {
		u.Role = entity.RoleClient
	}
	cp := *u
	r.users[u.ID] = &cp
	return u.ID, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	for k, v := range fields {
		switch k {
		case "displayName":
			u.DisplayName = v.(string)
		case "avatar":
			u.Avatar = v.(string)
		case "password":
			u.Password = v.(string)
		case "isActive":
			u.IsActive = v.(bool)
		case "verifyToken":
			if v == nil {
				u.VerifyToken = nil
			} else {
				s := v.(string)
				u.VerifyToken = &s
			}
		}
	}
	if t := setUpdatedAt(fields); t != nil {
		u.UpdatedAt = t
	}
	cp := *u
	return &cp, nil
}

type fakeInvitationRepo struct {
	invitations map[primitive.ObjectID]*entity.Invitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: map[primitive.ObjectID]*entity.Invitation{}}
}

func (r *fakeInvitationRepo) Create(_ context.Context, inv *entity.Invitation) (primitive.ObjectID, error) {
	if inv.ID.IsZero() {
		inv.ID = primitive.NewObjectID()
	}
	inv.CreatedAt = time.Now().UTC()
	cp := *inv
	r.invitations[inv.ID] = &cp
	return inv.ID, nil
}

func (r *fakeInvitationRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Invitation, error) {
	inv, ok := r.invitations[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvitationRepo) FindByInvitee(_ context.Context, userID primitive.ObjectID) ([]entity.InvitationDetails, error) {
	var out []entity.InvitationDetails
	for _, inv := range r.invitations {
		if inv.InviteeID == userID {
			out = append(out, entity.InvitationDetails{Invitation: *inv})
		}
	}
	return out, nil
}

func (r *fakeInvitationRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*entity.Invitation, error) {
	inv, ok := r.invitations[id]
	if !ok {
		return nil, nil
	}
	if v, ok := fields["boardInvitation.status"]; ok {
		inv.BoardInvitation.Status = v.(string)
	}
	if t := setUpdatedAt(fields); t != nil {
		inv.UpdatedAt = t
	}
	cp := *inv
	return &cp, nil
}

type fakeEmailQueue struct {
	jobs []any
	err  error
}

func (q *fakeEmailQueue) PublishJSON(_ context.Context, body any) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, body)
	return nil
}
