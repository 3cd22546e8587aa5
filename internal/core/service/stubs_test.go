package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// --- users ---

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("u%d", r.nextID)
	}
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByInvitationToken(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUserNotFound
	}
	for _, u := range r.users {
		if u.InvitationToken == token {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	if tokenHash == "" {
		return nil, domain.ErrUserNotFound
	}
	for _, u := range r.users {
		if u.ResetPasswordToken == tokenHash && u.ResetPasswordExpire.After(now) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByCustomerID(_ context.Context, customerID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Subscription.CustomerID == customerID {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, _ string) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// seed inserts a user directly, bypassing uniqueness checks.
func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	copy := cloneUser(u)
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("u%d", r.nextID)
	}
	r.users[copy.ID] = cloneUser(copy)
	return copy
}

// --- courses ---

type stubCourseRepo struct {
	courses map[string]*domain.Course
	nextID  int
}

func newStubCourseRepo() *stubCourseRepo {
	return &stubCourseRepo{courses: make(map[string]*domain.Course)}
}

func cloneCourse(c *domain.Course) *domain.Course {
	if c == nil {
		return nil
	}
	clone := *c
	if c.StudentIDs != nil {
		clone.StudentIDs = append([]string{}, c.StudentIDs...)
	}
	if c.Modules != nil {
		clone.Modules = append([]domain.Module{}, c.Modules...)
	}
	for i := range clone.Modules {
		if clone.Modules[i].Lessons != nil {
			clone.Modules[i].Lessons = append([]domain.Lesson{}, clone.Modules[i].Lessons...)
		}
		for j := range clone.Modules[i].Lessons {
			l := &clone.Modules[i].Lessons[j]
			if l.Resources != nil {
				l.Resources = append([]domain.Resource{}, l.Resources...)
			}
			if l.CompletedBy != nil {
				l.CompletedBy = append([]string{}, l.CompletedBy...)
			}
		}
	}
	return &clone
}

func (r *stubCourseRepo) Create(_ context.Context, course *domain.Course) (*domain.Course, error) {
	copy := cloneCourse(course)
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("c%d", r.nextID)
	}
	r.courses[copy.ID] = cloneCourse(copy)
	return cloneCourse(copy), nil
}

func (r *stubCourseRepo) FindByID(_ context.Context, id string) (*domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return cloneCourse(c), nil
}

func (r *stubCourseRepo) List(_ context.Context) ([]*domain.Course, error) {
	out := make([]*domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, cloneCourse(c))
	}
	return out, nil
}

func (r *stubCourseRepo) Replace(_ context.Context, course *domain.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return domain.ErrCourseNotFound
	}
	r.courses[course.ID] = cloneCourse(course)
	return nil
}

func (r *stubCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

// --- posts ---

type stubPostRepo struct {
	posts  map[string]*domain.Post
	order  []string
	nextID int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	if p == nil {
		return nil
	}
	clone := *p
	if p.LikedBy != nil {
		clone.LikedBy = append([]string{}, p.LikedBy...)
	}
	if p.Comments != nil {
		clone.Comments = append([]domain.Comment{}, p.Comments...)
	}
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	copy := clonePost(post)
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("p%d", r.nextID)
	}
	r.posts[copy.ID] = clonePost(copy)
	r.order = append([]string{copy.ID}, r.order...)
	return clonePost(copy), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) List(_ context.Context) ([]*domain.Post, error) {
	out := make([]*domain.Post, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clonePost(r.posts[id]))
	}
	return out, nil
}

func (r *stubPostRepo) Replace(_ context.Context, post *domain.Post) error {
	if _, ok := r.posts[post.ID]; !ok {
		return domain.ErrPostNotFound
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// --- conversations ---

type stubConversationRepo struct {
	convs  map[string]*domain.Conversation
	nextID int
}

func newStubConversationRepo() *stubConversationRepo {
	return &stubConversationRepo{convs: make(map[string]*domain.Conversation)}
}

func cloneConversation(c *domain.Conversation) *domain.Conversation {
	if c == nil {
		return nil
	}
	clone := *c
	clone.MemberIDs = append([]string(nil), c.MemberIDs...)
	clone.Messages = append([]domain.Message(nil), c.Messages...)
	return &clone
}

func (r *stubConversationRepo) Create(_ context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	copy := cloneConversation(conv)
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("conv%d", r.nextID)
	}
	r.convs[copy.ID] = cloneConversation(copy)
	return cloneConversation(copy), nil
}

func (r *stubConversationRepo) FindByID(_ context.Context, id string) (*domain.Conversation, error) {
	c, ok := r.convs[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return cloneConversation(c), nil
}

func (r *stubConversationRepo) FindDirect(_ context.Context, memberA, memberB string) (*domain.Conversation, error) {
	for _, c := range r.convs {
		if c.IsGroup || len(c.MemberIDs) != 2 {
			continue
		}
		if c.HasMember(memberA) && c.HasMember(memberB) {
			return cloneConversation(c), nil
		}
	}
	return nil, domain.ErrConversationNotFound
}

func (r *stubConversationRepo) ListByMember(_ context.Context, userID string) ([]*domain.Conversation, error) {
	out := make([]*domain.Conversation, 0)
	for _, c := range r.convs {
		if c.HasMember(userID) {
			out = append(out, cloneConversation(c))
		}
	}
	return out, nil
}

func (r *stubConversationRepo) Replace(_ context.Context, conv *domain.Conversation) error {
	if _, ok := r.convs[conv.ID]; !ok {
		return domain.ErrConversationNotFound
	}
	r.convs[conv.ID] = cloneConversation(conv)
	return nil
}

func (r *stubConversationRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.convs[id]; !ok {
		return domain.ErrConversationNotFound
	}
	delete(r.convs, id)
	return nil
}

// --- notifications ---

type stubNotificationRepo struct {
	items  []*domain.Notification
	nextID int
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{}
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	copy := *n
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("n%d", r.nextID)
	}
	r.items = append([]*domain.Notification{&copy}, r.items...)
	out := copy
	return &out, nil
}

func (r *stubNotificationRepo) ListByRecipient(_ context.Context, recipientID string, limit int) ([]*domain.Notification, error) {
	out := make([]*domain.Notification, 0)
	for _, n := range r.items {
		if n.RecipientID != recipientID {
			continue
		}
		copy := *n
		out = append(out, &copy)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, recipientID, id string) error {
	for _, n := range r.items {
		if n.RecipientID != recipientID {
			continue
		}
		if id == "" || n.ID == id {
			n.IsRead = true
		}
	}
	return nil
}

// --- collaborators ---

type stubMailer struct {
	sent []string // recipient addresses, in order
	err  error
}

func (m *stubMailer) Send(_ context.Context, to, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

type stubFileStore struct {
	uploads []string
	err     error
}

func (f *stubFileStore) Upload(_ context.Context, localPath, folder string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, localPath)
	return "https://cdn.test/" + folder + "/" + localPath, nil
}

type stubPresence struct {
	online map[string]bool
	err    error
}

func (p *stubPresence) Touch(_ context.Context, userID string) error {
	if p.online == nil {
		p.online = make(map[string]bool)
	}
	p.online[userID] = true
	return nil
}

func (p *stubPresence) Drop(_ context.Context, userID string) error {
	delete(p.online, userID)
	return nil
}

func (p *stubPresence) Online(_ context.Context, userIDs []string) (map[string]bool, error) {
	if p.err != nil {
		return nil, p.err
	}
	out := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		out[id] = p.online[id]
	}
	return out, nil
}

type publishedEvent struct {
	Room    string
	Event   string
	Payload any
}

type stubRealtime struct {
	published []publishedEvent
}

func (r *stubRealtime) Publish(room, event string, payload any) {
	r.published = append(r.published, publishedEvent{Room: room, Event: event, Payload: payload})
}

type stubNotifier struct {
	notified []ports.NotifyInput
	err      error
}

func (n *stubNotifier) Notify(_ context.Context, input ports.NotifyInput) error {
	if n.err != nil {
		return n.err
	}
	n.notified = append(n.notified, input)
	return nil
}

func (n *stubNotifier) ListMine(context.Context, string) ([]*ports.NotificationView, error) {
	return nil, errors.New("not implemented")
}

func (n *stubNotifier) MarkRead(context.Context, string, string) error {
	return errors.New("not implemented")
}

type stubGateway struct {
	checkoutURL  string
	lastCheckout ports.CheckoutParams
	sub          *ports.SubscriptionInfo
	err          error
}

func (g *stubGateway) CreateCheckoutSession(_ context.Context, params ports.CheckoutParams) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.lastCheckout = params
	return g.checkoutURL, nil
}

func (g *stubGateway) GetSubscription(_ context.Context, id string) (*ports.SubscriptionInfo, error) {
	if g.err != nil {
		return nil, g.err
	}
	if g.sub == nil {
		return nil, errors.New("unknown subscription")
	}
	copy := *g.sub
	copy.ID = id
	return &copy, nil
}
