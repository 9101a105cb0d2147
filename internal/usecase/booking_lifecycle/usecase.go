package booking_lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/GymLessonBookingService/internal/infra/storage/booking"
	reservationRepo "github.com/m04kA/GymLessonBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/GymLessonBookingService/internal/integrations/profileservice"
	"github.com/m04kA/GymLessonBookingService/internal/integrations/stripepay"
	"github.com/m04kA/GymLessonBookingService/pkg/ptr"
)

// Coordinator жизненный цикл бронирования: оформление из удержания,
// платежные события и ручные правки администратора
type Coordinator struct {
	reservations ReservationService
	bookingRepo  BookingRepository
	claimRepo    ClaimRepository
	eventRepo    PaymentEventRepository
	payments     PaymentProvider
	profiles     ProfileClient
	notifier     Notifier
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewCoordinator создает новый экземпляр координатора
func NewCoordinator(
	reservations ReservationService,
	bookingRepo BookingRepository,
	claimRepo ClaimRepository,
	eventRepo PaymentEventRepository,
	payments PaymentProvider,
	profiles ProfileClient,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Coordinator {
	return &Coordinator{
		reservations: reservations,
		bookingRepo:  bookingRepo,
		claimRepo:    claimRepo,
		eventRepo:    eventRepo,
		payments:     payments,
		profiles:     profiles,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *Coordinator) WithTimeProvider(tp TimeProvider) *Coordinator {
	uc.timeProvider = tp
	return uc
}

// CreateFromReservation превращает живое удержание сессии в бронирование
// Гашение удержания и занятие интервала бронированием выполняются в одной транзакции
func (uc *Coordinator) CreateFromReservation(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	// 1. Валидация входных данных
	if err := validateCreateRequest(req); err != nil {
		uc.logger.Warn("CreateFromReservation: validation failed: %v", err)
		return nil, err
	}
	uc.logger.Info("CreateFromReservation: session=%s, athletes=%d", req.SessionID, len(req.Details.Athletes))

	now := uc.timeProvider.Now()
	var booking *domain.Booking

	// 2. Гасим удержание и создаем бронирование в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Удержание должно быть живым
		hold, err := uc.reservations.Consume(txCtx, req.SessionID)
		if err != nil {
			return err
		}

		// 2.2. Собираем бронирование из удержания
		offering, ok := hold.LessonType.Offering()
		if !ok {
			return fmt.Errorf("%w: unknown lesson type %q in hold", ErrInternal, hold.LessonType)
		}
		draft := buildBooking(hold, req.Details, offering.PriceCents)

		// 2.3. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, draft)
		if err != nil {
			uc.logger.Error("CreateFromReservation: failed to create booking: %v", err)
			return fmt.Errorf("%w: CreateFromReservation - create booking: %v", ErrInternal, err)
		}

		// 2.4. Интервал переходит от удержания к бронированию
		if err := uc.claimRepo.ClaimForBooking(txCtx, created, now); err != nil {
			if errors.Is(err, reservationRepo.ErrOverlap) {
				uc.logger.Warn("CreateFromReservation: interval of booking id=%d already claimed", created.ID)
				return ErrSlotConflict
			}
			uc.logger.Error("CreateFromReservation: failed to claim interval: %v", err)
			return fmt.Errorf("%w: CreateFromReservation - claim interval: %v", ErrInternal, err)
		}

		booking = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordStatusChange(string(booking.Status))
	uc.logger.Info("CreateFromReservation: booking id=%d created with status=%s", booking.ID, booking.Status)

	// 3. Инициируем оплату вне транзакции
	offering, _ := booking.LessonType.Offering()
	checkout, err := uc.payments.CreateCheckout(ctx, stripepay.CheckoutRequest{
		BookingID:     booking.ID,
		AmountCents:   booking.AmountCents,
		Description:   fmt.Sprintf("%s on %s at %s", offering.Name, booking.BookingDate.Format(domain.DateFormat), booking.StartTime),
		LessonName:    offering.Name,
		CustomerEmail: booking.ParentEmail,
	})
	if err != nil {
		uc.logger.Error("CreateFromReservation: payment initiation failed for booking id=%d: %v", booking.ID, err)
		uc.failPayment(ctx, booking.ID)
		return nil, fmt.Errorf("%w: booking id=%d: %v", ErrPaymentInitiation, booking.ID, err)
	}

	if err := uc.bookingRepo.UpdatePaymentDetails(ctx, booking.ID, ptr.Ptr(checkout.SessionID), nil); err != nil {
		uc.logger.Error("CreateFromReservation: failed to store payment reference for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: CreateFromReservation - store payment reference: %v", ErrInternal, err)
	}
	booking.PaymentReference = ptr.Ptr(checkout.SessionID)

	// 4. Профиль родителя и уведомление не влияют на результат
	uc.attachProfile(ctx, booking)
	uc.notify(ctx, booking, "", checkout.URL)

	return &CreateResult{Booking: booking, CheckoutURL: checkout.URL}, nil
}

// ApplyPaymentEvent применяет асинхронное событие платежного провайдера
// Событие с уже обработанным ID не меняет бронирование; устаревшие события игнорируются
func (uc *Coordinator) ApplyPaymentEvent(ctx context.Context, event domain.PaymentEvent) (*PaymentEventResult, error) {
	// 1. Валидация события
	if event.ID == "" {
		return nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	if event.BookingReference <= 0 {
		return nil, fmt.Errorf("%w: booking reference is required", ErrInvalidInput)
	}
	eventType, err := domain.ParsePaymentEventType(string(event.Type))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	// Дальше работаем только с нормализованным типом (checkout.session.completed -> payment.succeeded)
	event.Type = eventType

	uc.logger.Info("ApplyPaymentEvent: event=%s, type=%s, booking=%d", event.ID, event.Type, event.BookingReference)

	var (
		booking  *domain.Booking
		previous domain.BookingStatus
		outcome  string
	)

	// 2. Применяем событие под блокировкой бронирования
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Блокируем бронирование
		current, err := uc.lockBooking(txCtx, "ApplyPaymentEvent", event.BookingReference)
		if err != nil {
			return err
		}
		booking = current
		previous = current.Status

		// 2.2. Дедупликация по ID события
		fresh, err := uc.eventRepo.MarkProcessed(txCtx, event.ID, current.ID, event.Type)
		if err != nil {
			uc.logger.Error("ApplyPaymentEvent: failed to record event=%s: %v", event.ID, err)
			return fmt.Errorf("%w: ApplyPaymentEvent - record event: %v", ErrInternal, err)
		}
		if !fresh {
			outcome = outcomeDuplicate
			return nil
		}

		// 2.3. Целевой статус оплаты
		target, err := event.TargetPaymentStatus(current.PaymentStatus)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		// 2.4. Событие не должно откатывать бронирование назад
		if !paymentAdvances(current, target) {
			uc.logger.Warn("ApplyPaymentEvent: stale event=%s ignored, booking id=%d payment=%s target=%s status=%s",
				event.ID, current.ID, current.PaymentStatus, target, current.Status)
			outcome = outcomeIgnored
			return nil
		}

		// 2.5. Оплата автоматически подтверждает посещение
		attendance := current.AttendanceStatus
		if target.IsPaid() && attendance == domain.AttendancePending {
			attendance = domain.AttendanceConfirmed
		}

		if err := uc.transition(txCtx, current, target, attendance); err != nil {
			return err
		}

		// 2.6. Сохраняем детали платежа
		var (
			reference *string
			paid      *int64
		)
		if event.SessionReference != "" {
			reference = ptr.Ptr(event.SessionReference)
		}
		if event.AmountCents > 0 && target.IsPaid() {
			paid = ptr.Ptr(event.AmountCents)
		}
		if reference != nil || paid != nil {
			if err := uc.bookingRepo.UpdatePaymentDetails(txCtx, current.ID, reference, paid); err != nil {
				uc.logger.Error("ApplyPaymentEvent: failed to store payment details for booking id=%d: %v", current.ID, err)
				return fmt.Errorf("%w: ApplyPaymentEvent - store payment details: %v", ErrInternal, err)
			}
			if reference != nil {
				current.PaymentReference = reference
			}
			if paid != nil {
				current.PaidAmountCents = paid
			}
		}

		outcome = outcomeApplied
		return nil
	})
	if err != nil {
		uc.metrics.RecordPaymentEvent(string(event.Type), outcomeFailed)
		return nil, err
	}

	// 3. Метрики и побочные эффекты после фиксации
	uc.metrics.RecordPaymentEvent(string(event.Type), outcome)
	if outcome != outcomeApplied {
		uc.logger.Info("ApplyPaymentEvent: event=%s %s", event.ID, outcome)
		return &PaymentEventResult{Booking: booking, Outcome: outcome}, nil
	}

	uc.logger.Info("ApplyPaymentEvent: booking id=%d %s -> %s", booking.ID, previous, booking.Status)
	if booking.Status != previous {
		uc.metrics.RecordStatusChange(string(booking.Status))
		uc.notify(ctx, booking, previous, "")
	}
	if booking.PaymentStatus.IsPaid() && booking.ProfileID == nil {
		uc.attachProfile(ctx, booking)
	}

	return &PaymentEventResult{Booking: booking, Outcome: outcome}, nil
}

// ApplyAdminOverride ручная установка подстатусов администратором
// Статус всегда пересчитывается из пары подстатусов
func (uc *Coordinator) ApplyAdminOverride(ctx context.Context, bookingID int64, req AdminOverrideRequest) (*domain.Booking, error) {
	if bookingID <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}
	uc.logger.Info("ApplyAdminOverride: booking=%d", bookingID)

	var (
		booking  *domain.Booking
		previous domain.BookingStatus
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем бронирование
		current, err := uc.lockBooking(txCtx, "ApplyAdminOverride", bookingID)
		if err != nil {
			return err
		}
		previous = current.Status

		// 2. Разбираем правку поверх текущих подстатусов
		payment, attendance, err := parseOverride(req, current)
		if err != nil {
			return err
		}

		// 3. Пересчитываем статус и интервал
		if err := uc.transition(txCtx, current, payment, attendance); err != nil {
			return err
		}

		booking = current
		return nil
	})
	if err != nil {
		uc.logger.Warn("ApplyAdminOverride: booking=%d not updated: %v", bookingID, err)
		return nil, err
	}

	uc.logger.Info("ApplyAdminOverride: booking id=%d payment=%s attendance=%s status %s -> %s",
		booking.ID, booking.PaymentStatus, booking.AttendanceStatus, previous, booking.Status)
	if booking.Status != previous {
		uc.metrics.RecordStatusChange(string(booking.Status))
		uc.notify(ctx, booking, previous, "")
	}
	return booking, nil
}

// transition сохраняет подстатусы и синхронизирует занятость интервала
// Вызывается внутри транзакции, бронирование заблокировано
func (uc *Coordinator) transition(ctx context.Context, booking *domain.Booking, payment domain.PaymentStatus, attendance domain.AttendanceStatus) error {
	wasActive := booking.OccupiesSlot()

	booking.SetSubstatuses(payment, attendance)
	status, err := uc.bookingRepo.UpdateSubstatuses(ctx, booking.ID, payment, attendance)
	if err != nil {
		uc.logger.Error("transition: failed to update booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: transition - update substatuses: %v", ErrInternal, err)
	}
	booking.Status = status

	switch {
	case wasActive && !booking.OccupiesSlot():
		if err := uc.claimRepo.ReleaseBookingClaim(ctx, booking.ID); err != nil {
			uc.logger.Error("transition: failed to release interval of booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: transition - release interval: %v", ErrInternal, err)
		}
	case !wasActive && booking.OccupiesSlot():
		if err := uc.claimRepo.ClaimForBooking(ctx, booking, uc.timeProvider.Now()); err != nil {
			if errors.Is(err, reservationRepo.ErrOverlap) {
				uc.logger.Warn("transition: interval of booking id=%d is taken, cannot reactivate", booking.ID)
				return ErrSlotConflict
			}
			uc.logger.Error("transition: failed to claim interval of booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: transition - claim interval: %v", ErrInternal, err)
		}
	}
	return nil
}

func (uc *Coordinator) lockBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("%s: failed to load booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - load booking: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// failPayment переводит бронирование в FAILED и освобождает интервал
func (uc *Coordinator) failPayment(ctx context.Context, id int64) {
	var (
		booking  *domain.Booking
		previous domain.BookingStatus
	)
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := uc.lockBooking(txCtx, "failPayment", id)
		if err != nil {
			return err
		}
		previous = current.Status
		if err := uc.transition(txCtx, current, domain.PaymentReservationFailed, current.AttendanceStatus); err != nil {
			return err
		}
		booking = current
		return nil
	})
	if err != nil {
		uc.logger.Error("failPayment: booking id=%d left in status pending: %v", id, err)
		return
	}

	uc.metrics.RecordStatusChange(string(booking.Status))
	uc.notify(ctx, booking, previous, "")
}

// attachProfile находит или создает профиль родителя; ошибки только логируются
func (uc *Coordinator) attachProfile(ctx context.Context, booking *domain.Booking) {
	if uc.profiles == nil || booking.ProfileID != nil {
		return
	}

	athletes := make([]profileservice.Athlete, 0, len(booking.Athletes))
	for _, name := range booking.Athletes {
		athletes = append(athletes, profileservice.Athlete{Name: name})
	}

	parent, err := uc.profiles.FindOrCreateParent(ctx, profileservice.ParentRequest{
		FirstName: booking.ParentFirstName,
		LastName:  booking.ParentLastName,
		Email:     booking.ParentEmail,
		Phone:     booking.ParentPhone,
		Athletes:  athletes,
	})
	if err != nil {
		uc.logger.Warn("attachProfile: profile lookup failed for booking id=%d: %v", booking.ID, err)
		return
	}

	if err := uc.bookingRepo.AttachProfile(ctx, booking.ID, parent.ID); err != nil {
		uc.logger.Warn("attachProfile: failed to link profile id=%d to booking id=%d: %v", parent.ID, booking.ID, err)
		return
	}
	booking.ProfileID = ptr.Ptr(parent.ID)
}

func (uc *Coordinator) notify(ctx context.Context, booking *domain.Booking, previous domain.BookingStatus, checkoutURL string) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.BookingStatusChanged(ctx, booking, previous, checkoutURL); err != nil {
		uc.logger.Warn("notify: booking id=%d: %v", booking.ID, err)
	}
}

// paymentAdvances true, если целевой статус оплаты двигает бронирование вперед
// В терминальном статусе принимается только возврат уже оплаченного бронирования
func paymentAdvances(current *domain.Booking, target domain.PaymentStatus) bool {
	if current.Status.IsTerminal() {
		return target.IsRefunded() && current.PaymentStatus.IsPaid()
	}
	return target.Rank() > current.PaymentStatus.Rank()
}

func buildBooking(hold *domain.SlotReservation, details domain.BookingDetails, amountCents int64) *domain.Booking {
	booking := &domain.Booking{
		BookingDate:     hold.Date,
		StartTime:       hold.StartTime,
		DurationMinutes: hold.DurationMinutes,
		LessonType:      hold.LessonType,
		AmountCents:     amountCents,
		ParentFirstName: details.ParentFirstName,
		ParentLastName:  details.ParentLastName,
		ParentEmail:     details.ParentEmail,
		ParentPhone:     details.ParentPhone,
		Athletes:        details.Athletes,
		Notes:           details.Notes,
	}
	booking.SetSubstatuses(domain.PaymentReservationPending, domain.AttendancePending)
	return booking
}
