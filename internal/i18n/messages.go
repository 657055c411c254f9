package i18n

var catalog = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":               "Invalid request",
		"error.unauthorized":              "Authentication required",
		"error.forbidden":                 "Access denied",
		"error.not_found":                 "Not found",
		"error.internal":                  "Internal server error",
		"error.jwt_secret_missing":        "Token secret is not configured",
		"error.auth_header_missing":       "Authorization header is missing",
		"error.auth_header_invalid":       "Authorization header is malformed",
		"error.token_invalid":             "Invalid token",
		"error.token_revoked":             "Token has been revoked",
		"error.user_disabled":             "Account is disabled",
		"error.user_id_invalid":           "Invalid user id",
		"error.user_id_type_invalid":      "Invalid user id type",
		"error.admin_id_invalid":          "Invalid admin id",
		"error.admin_id_type_invalid":     "Invalid admin id type",
		"error.rate_limit_unavailable":    "Rate limiter is unavailable",
		"error.rate_limited":              "Too many requests, retry in %d seconds",
		"error.login_too_many":            "Too many login attempts, retry in %d seconds",
		"error.login_invalid":             "Wrong username or password",
		"error.login_failed":              "Login failed",
		"error.register_failed":           "Sign up failed",
		"error.logout_failed":             "Logout failed",
		"error.username_invalid":          "Username is required",
		"error.username_exists":           "This username is already taken",
		"error.email_invalid":             "Invalid email address",
		"error.name_too_long":             "Name must be at most %d characters",
		"error.email_exists":              "This email is already used",
		"error.password_weak":             "Password is too weak",
		"error.password_min_length":       "Password must be at least %d characters long",
		"error.password_require_upper":    "Password must contain an uppercase letter",
		"error.password_require_lower":    "Password must contain a lowercase letter",
		"error.password_require_number":   "Password must contain a digit",
		"error.password_require_special":  "Password must contain a special character",
		"error.password_old_invalid":      "Current password is wrong",
		"error.user_not_found":            "User not found",
		"error.user_fetch_failed":         "Failed to load the user",
		"error.user_update_failed":        "Failed to update the user",
		"error.profile_update_failed":     "Failed to update the profile",
		"error.post_not_found":            "Post not found",
		"error.post_fetch_failed":         "Failed to load posts",
		"error.post_create_failed":        "Failed to create the post",
		"error.post_update_failed":        "Failed to update the post",
		"error.post_delete_failed":        "Failed to delete the post",
		"error.post_title_required":       "Title is required",
		"error.post_title_too_long":       "Title must be at most 200 characters",
		"error.post_content_required":     "Content is required",
		"error.post_type_invalid":         "Unknown post type",
		"error.search_date_invalid":       "Date must use the YYYY-MM-DD format",
		"error.category_not_found":        "Category not found",
		"error.category_name_required":    "Category name is required",
		"error.category_name_exists":      "A category with this name already exists",
		"error.category_name_too_long":    "Category name must be at most %d characters",
		"error.category_fetch_failed":     "Failed to load categories",
		"error.category_save_failed":      "Failed to save the category",
		"error.category_delete_failed":    "Failed to delete the category",
		"error.subscription_failed":       "Failed to update the subscription",
		"error.subscription_fetch_failed": "Failed to load subscriptions",
		"error.role_not_found":            "Role is not configured",
		"error.role_update_failed":        "Failed to update roles",
		"error.role_capability_invalid":   "Unknown capability in role",
		"error.become_author_failed":      "Failed to grant author rights",
		"error.oauth_disabled":            "Yandex login is not configured",
		"error.oauth_state_invalid":       "Login session expired, try again",
		"error.captcha_unavailable":       "Captcha is not enabled",
		"error.captcha_required":          "Enter the captcha",
		"error.captcha_invalid":           "Captcha is wrong or expired",
		"error.captcha_generate_failed":   "Could not create captcha",
		"error.oauth_exchange_failed":     "Yandex login failed",
		"error.digest_failed":             "Digest run failed",
		"error.queue_unavailable":         "Task queue is unavailable",
		"error.authz_failed":              "Failed to update permissions",
		"error.admin_not_found":           "Admin account not found",
		"error.admin_username_invalid":    "Admin username must be 3-64 characters without spaces",
		"error.admin_username_exists":     "This admin username is already taken",
		"error.admin_save_failed":         "Failed to save the admin account",
		"error.admin_delete_failed":       "Failed to delete the admin account",
		"error.admin_delete_self":         "You cannot delete your own account",
		"error.admin_delete_protected":    "This admin account cannot be deleted",
		"message.permission_denied":       "You do not have permission to do that",
		"message.not_owner":               "You can only change your own posts",
		"message.post_created":            "The post has been published",
		"message.post_updated":            "The post has been updated",
		"message.post_deleted":            "The post has been deleted",
		"message.profile_updated":         "Profile updated",
		"message.become_author":           "You are now an author",
		"message.subscribed":              "Subscribed",
		"message.unsubscribed":            "Unsubscribed",
		"message.logged_out":              "Logged out",
		"email.new_post.subject":          "New article: %s",
		"email.new_post.body":             "A new article has been published in the category \"%s\":\n\nTitle: %s\nAuthor: %s\nPublished: %s\n\n%s...\n\nRead it: %s\n\nYou received this email because you are subscribed to the category \"%s\".\n",
		"email.new_post.unknown_author":   "unknown",
		"email.digest.subject":            "Weekly digest: new articles in the category \"%s\"",
		"email.digest.body":               "Hello!\n\nDuring the last week new articles were published in the category \"%s\":\n\n%s\nTotal new articles: %d\n\nEnjoy reading!\nThe news portal team\n",
		"email.digest.item":               "• %s - %s\n",
	},
	LocaleRU: {
		"error.bad_request":             "Некорректный запрос",
		"error.unauthorized":            "Требуется авторизация",
		"error.forbidden":               "Доступ запрещен",
		"error.not_found":               "Не найдено",
		"error.internal":                "Внутренняя ошибка сервера",
		"error.auth_header_missing":     "Отсутствует заголовок авторизации",
		"error.token_invalid":           "Недействительный токен",
		"error.token_revoked":           "Токен отозван",
		"error.user_disabled":           "Учетная запись заблокирована",
		"error.rate_limited":            "Слишком много запросов, повторите через %d с",
		"error.login_too_many":          "Слишком много попыток входа, повторите через %d с",
		"error.login_invalid":           "Неверное имя пользователя или пароль",
		"error.username_exists":         "Это имя пользователя уже занято",
		"error.email_invalid":           "Некорректный адрес электронной почты",
		"error.name_too_long":           "Имя не может быть длиннее %d символов",
		"error.email_exists":            "Этот адрес уже используется",
		"error.password_min_length":     "Пароль должен содержать не менее %d символов",
		"error.user_not_found":          "Пользователь не найден",
		"error.post_not_found":          "Публикация не найдена",
		"error.post_title_required":     "Заголовок обязателен",
		"error.post_title_too_long":     "Заголовок не может быть длиннее 200 символов",
		"error.post_content_required":   "Содержание обязательно",
		"error.post_type_invalid":       "Неизвестный тип публикации",
		"error.search_date_invalid":     "Дата должна быть в формате ГГГГ-ММ-ДД",
		"error.category_not_found":      "Категория не найдена",
		"error.category_name_exists":    "Категория с таким названием уже существует",
		"error.role_not_found":          "Группа не найдена",
		"error.role_capability_invalid": "Неизвестное право в группе",
		"error.oauth_disabled":          "Вход через Яндекс не настроен",
		"error.oauth_state_invalid":     "Сессия входа истекла, попробуйте снова",
		"error.captcha_unavailable":     "Капча отключена",
		"error.captcha_required":        "Введите код с картинки",
		"error.captcha_invalid":         "Код с картинки неверный или устарел",
		"error.captcha_generate_failed": "Не удалось создать капчу",
		"error.oauth_exchange_failed":   "Не удалось войти через Яндекс",
		"message.permission_denied":     "У вас нет прав на это действие",
		"message.not_owner":             "Вы можете редактировать только свои публикации",
		"message.post_created":          "Публикация создана",
		"message.post_updated":          "Публикация обновлена",
		"message.post_deleted":          "Публикация удалена",
		"message.profile_updated":       "Профиль обновлен",
		"message.become_author":         "Теперь вы автор",
		"message.subscribed":            "Вы подписались на категорию",
		"message.unsubscribed":          "Вы отписались от категории",
		"message.logged_out":            "Вы вышли из системы",
		"email.new_post.subject":        "Новая статья: %s",
		"email.new_post.body":           "В категории \"%s\" опубликована новая статья:\n\nЗаголовок: %s\nАвтор: %s\nДата публикации: %s\n\n%s...\n\nПерейти к статье: %s\n\nВы получили это письмо, потому что подписаны на категорию \"%s\".\n",
		"email.new_post.unknown_author": "Неизвестен",
		"email.digest.subject":          "Еженедельная рассылка: новые статьи в категории \"%s\"",
		"email.digest.body":             "Добрый день!\n\nЗа последнюю неделю в категории \"%s\" опубликованы новые статьи:\n\n%s\nВсего новых статей: %d\n\nПриятного чтения!\nКоманда новостного портала\n",
		"email.digest.item":             "• %s - %s\n",
	},
}
