package sqlinline

const userColumns = `id, wallet, email, plan, free_checks_used, stripe_customer_id, subscription_item_id,
       xp, streak, reward_points, evolution_level, last_workout_at, created_at, updated_at`

const QUpsertUserByWallet = `--sql 3f1c9b2e-8a41-4d6f-9b3a-5e7d20c4a815
insert into users (id, wallet, plan, free_checks_used, created_at, updated_at)
values (gen_random_uuid(), $1::text, 'free', 0, now(), now())
on conflict (wallet) do update set updated_at = now()
returning ` + userColumns + `;
`

const QSelectUserByID = `--sql 7d2a4e90-1b3c-4f58-8e6d-0a9c5b7f2341
select ` + userColumns + `
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByWallet = `--sql b8e3a1f7-4c2d-4a9b-b5e8-6f1d3c0a9274
select ` + userColumns + `
from users
where wallet = $1::text
limit 1;
`

const QSelectUserByEmail = `--sql e5d7c3a9-2f81-4b60-a74c-8b3e1f5d2096
select ` + userColumns + `
from users
where email = $1::text
limit 1;
`

// Quota check and increment in one statement so concurrent requests cannot
// both pass the limit before either commits.
const QConsumeCheck = `--sql a94b7e21-6d3f-4c85-92ab-4e0c8f7d1563
update users
set free_checks_used = free_checks_used + 1,
    updated_at = now()
where id = $1::uuid
  and (plan = 'pro' or free_checks_used < $2::int)
returning ` + userColumns + `;
`

const QApplyWorkout = `--sql c2f8d5b3-9a74-4e16-8c2d-7b5a3e9f0481
update users
set xp = xp + $2::bigint,
    reward_points = reward_points + $3::bigint,
    streak = case
        when last_workout_at is null then 1
        when date_trunc('day', last_workout_at at time zone 'utc') = date_trunc('day', now() at time zone 'utc') then greatest(streak, 1)
        when date_trunc('day', last_workout_at at time zone 'utc') = date_trunc('day', now() at time zone 'utc') - interval '1 day' then streak + 1
        else 1
    end,
    evolution_level = case
        when xp + $2::bigint >= 10000 then 5
        when xp + $2::bigint >= 4000 then 4
        when xp + $2::bigint >= 1500 then 3
        when xp + $2::bigint >= 500 then 2
        else 1
    end,
    last_workout_at = now(),
    updated_at = now()
where id = $1::uuid
returning ` + userColumns + `;
`

const QSetUserPlan = `--sql 1e6b9d47-3c82-4f50-ad1b-9e4f7c2a6058
update users
set plan = $2::text,
    free_checks_used = case when $3::boolean then 0 else free_checks_used end,
    updated_at = now()
where id = $1::uuid;
`
