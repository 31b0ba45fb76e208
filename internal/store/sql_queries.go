package store

const userColumns = `user_id, username, email, password_hash, role, is_premium, pending_email, otp, otp_expires_at, refresh_token, created_at`

const (
	createUser = `INSERT INTO users (username, email, password_hash, role)
    VALUES ($1, $2, $3, $4)
    RETURNING ` + userColumns + `;`

	findUserByIdentifier = `SELECT ` + userColumns + `
    FROM users
    WHERE username = $1 OR email = $1;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE user_id = $1;`

	findUserByRefreshToken = `SELECT ` + userColumns + `
    FROM users
    WHERE refresh_token = $1;`

	getAllUsers = `SELECT ` + userColumns + `
    FROM users
    ORDER BY user_id;`

	setUserOTP = `UPDATE users
    SET otp = $2, otp_expires_at = $3
    WHERE user_id = $1;`

	clearUserOTP = `UPDATE users
    SET otp = NULL, otp_expires_at = NULL
    WHERE user_id = $1;`

	setUserRefreshToken = `UPDATE users
    SET refresh_token = $2
    WHERE user_id = $1;`

	clearUserRefreshToken = `UPDATE users
    SET refresh_token = NULL
    WHERE user_id = $1;`

	updateUserPassword = `UPDATE users
    SET password_hash = $2
    WHERE user_id = $1;`

	setUserPendingEmail = `UPDATE users
    SET pending_email = $2
    WHERE user_id = $1;`

	promoteUserPendingEmail = `UPDATE users
    SET email = pending_email, pending_email = NULL
    WHERE user_id = $1 AND pending_email IS NOT NULL
    RETURNING email;`

	updateUserRole = `UPDATE users
    SET role = $2
    WHERE user_id = $1
    RETURNING ` + userColumns + `;`
)

const (
	isIPBanned = `SELECT is_banned
    FROM ip_bans
    WHERE ip_address = $1;`

	recordIPBan = `INSERT INTO ip_bans (ip_address, is_banned, reason, ban_count)
    VALUES ($1, TRUE, $2, 1)
    ON CONFLICT (ip_address) DO UPDATE
    SET is_banned = TRUE,
        reason = EXCLUDED.reason,
        ban_count = ip_bans.ban_count + 1,
        updated_at = NOW();`

	clearIPBan = `UPDATE ip_bans
    SET is_banned = FALSE, updated_at = NOW()
    WHERE ip_address = $1;`
)

const appendActivityEntry = `INSERT INTO activity_logs (user_id, action, outcome, ip_address, details)
    VALUES ($1, $2, $3, $4, $5);`
